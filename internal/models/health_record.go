package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthRecord is owned by the patient who created it; only the owner
// can update or delete it.
type HealthRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID   primitive.ObjectID `bson:"patient_id" json:"patient_id"`
	Disease     []string           `bson:"disease" json:"disease"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
