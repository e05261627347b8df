package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointTransaction is one immutable entry in the points ledger. Rows are only
// ever inserted; a user's balance is the sum of their rows.
type PointTransaction struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	EventTypeID *primitive.ObjectID `bson:"eventTypeId,omitempty" json:"eventTypeId,omitempty"`
	Points      int                 `bson:"points" json:"points"` // signed; redemption debits are negative
	Description string              `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// AddPointsRequest is the admin payload for awarding points.
// EventTypeID is optional; when set, the award takes that event type's
// configured value instead of Points.
type AddPointsRequest struct {
	UserID      string `json:"userId" binding:"required"`
	EventTypeID string `json:"eventTypeId"`
	Points      int    `json:"points"`
	Description string `json:"description" binding:"required"`
}
