package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient is the role profile referenced by a Patient user. The list
// fields are denormalized back-references maintained by the handlers on
// every create/cancel/delete of the primary documents.
type Patient struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DateOfBirth    *time.Time           `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Image          string               `bson:"image" json:"image"`
	Address        string               `bson:"address" json:"address"`
	BloodGroup     string               `bson:"blood_group,omitempty" json:"blood_group,omitempty"`
	Appointments   []primitive.ObjectID `bson:"appointments" json:"appointments"`
	Feedbacks      []primitive.ObjectID `bson:"feedbacks" json:"feedbacks"`
	VisitedDoctors []primitive.ObjectID `bson:"visited_doctors" json:"visited_doctors"`
	HealthRecords  []primitive.ObjectID `bson:"health_records" json:"health_records"`
	LabReports     []primitive.ObjectID `bson:"lab_reports" json:"lab_reports"`
	Prescriptions  []primitive.ObjectID `bson:"prescriptions" json:"prescriptions"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// BloodGroups is the accepted set for Patient.BloodGroup.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodGroup(bg string) bool {
	for _, g := range BloodGroups {
		if g == bg {
			return true
		}
	}
	return false
}
