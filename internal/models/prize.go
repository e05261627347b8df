package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prize is one entry in the redemption catalog. A prize with zero quantity
// stays visible so the storefront can show it as out of stock.
type Prize struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL          string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	PointsCost        int                `bson:"pointsCost" json:"pointsCost"`
	QuantityAvailable int                `bson:"quantityAvailable" json:"quantityAvailable"`
	Active            bool               `bson:"active" json:"active"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PrizeInput is the admin payload for creating or updating a prize.
type PrizeInput struct {
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	ImageURL          string `json:"imageUrl"`
	PointsCost        int    `json:"pointsCost" binding:"required"`
	QuantityAvailable int    `json:"quantityAvailable"`
	Active            *bool  `json:"active"`
}
