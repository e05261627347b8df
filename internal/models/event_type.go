package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType is a named, priced category of point-earning activity
// (e.g. "sale", "training", "monthly-goal").
type EventType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key"`
	Title     string             `bson:"title" json:"title"`
	Points    int                `bson:"points" json:"points"`
	Active    bool               `bson:"active" json:"active"`
	MaxPerDay int                `bson:"maxPerDay" json:"maxPerDay"` // 0 means no daily cap
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EventTypeInput is the admin payload for creating or updating an event type.
type EventTypeInput struct {
	Key       string `json:"key" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Points    int    `json:"points" binding:"required"`
	Active    bool   `json:"active"`
	MaxPerDay int    `json:"maxPerDay"`
}
