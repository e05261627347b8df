package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an employee in the recognition program.
//
// Points is a materialized copy of the user's ledger sum. It is only ever
// written inside the same store transaction as a ledger append, so it can be
// used for cheap reads (ranking) while the ledger stays the ground truth.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Department   string             `bson:"department,omitempty" json:"department,omitempty"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Points       int                `bson:"points" json:"points"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateUserRequest is the admin payload for provisioning a roster entry.
type CreateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatarUrl"`
	IsAdmin    bool   `json:"isAdmin"`
	Password   string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest carries the mutable roster fields.
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatarUrl"`
	IsAdmin    bool   `json:"isAdmin"`
}
