package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment lifecycle: created as confirmed, flipped to completed
// exactly once. Cancellation deletes the document outright.
const (
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	DateTime  time.Time          `bson:"dateTime" json:"dateTime"`
	Status    string             `bson:"status" json:"status"`
	Disease   []string           `bson:"disease" json:"disease"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
