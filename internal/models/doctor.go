package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is the role profile referenced by a Doctor user.
type Doctor struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Image           string               `bson:"image" json:"image"`
	Specialization  []primitive.ObjectID `bson:"specialization" json:"specialization"`
	LicenseNumber   int                  `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	Experience      int                  `bson:"experience,omitempty" json:"experience,omitempty"`
	Availability    bool                 `bson:"availability" json:"availability"`
	VisitedPatients []primitive.ObjectID `bson:"visited_patients" json:"visited_patients,omitempty"`
	Appointments    []primitive.ObjectID `bson:"appointments" json:"appointments"`
	Feedbacks       []primitive.ObjectID `bson:"feedbacks" json:"feedbacks"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}
