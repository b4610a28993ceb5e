package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Specialization names are unique; stored lowercased so "Cardiology"
// and "cardiology" collide.
type Specialization struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
