package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LabRecord is written by the doctor of record for a confirmed
// appointment between that doctor and the patient.
type LabRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	TestName      string             `bson:"testName" json:"testName"`
	TestResult    string             `bson:"testResult" json:"testResult"`
	FilePath      string             `bson:"filePath" json:"filePath"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
