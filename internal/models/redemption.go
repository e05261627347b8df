package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionStatus is the lifecycle state of a redemption. The current flow
// completes synchronously, so records are written as completed.
type RedemptionStatus string

const (
	RedemptionStatusCompleted RedemptionStatus = "completed"
)

// Redemption records an atomic exchange of points for one unit of a prize.
// PointsCost snapshots the prize's cost at redemption time; TransactionID
// references the debit entry appended to the ledger in the same transaction.
type Redemption struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	PrizeID        primitive.ObjectID `bson:"prizeId" json:"prizeId"`
	PointsCost     int                `bson:"pointsCost" json:"pointsCost"`
	Status         RedemptionStatus   `bson:"status" json:"status"`
	IdempotencyKey string             `bson:"idempotencyKey,omitempty" json:"-"`
	TransactionID  primitive.ObjectID `bson:"transactionId" json:"transactionId"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// RedeemRequest is the storefront payload for redeeming a prize.
type RedeemRequest struct {
	PrizeID string `json:"prizeId" binding:"required"`
}
