package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RankedUser is a leaderboard row: a user's public profile plus their
// 1-based rank. Ranking is by points descending; ties are broken by
// creation order so repeated queries return identical results.
type RankedUser struct {
	Rank       int                `json:"rank"`
	UserID     primitive.ObjectID `json:"userId"`
	Name       string             `json:"name"`
	Department string             `json:"department,omitempty"`
	AvatarURL  string             `json:"avatarUrl,omitempty"`
	Points     int                `json:"points"`
}
