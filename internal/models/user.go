package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. The role decides which profile
// collection ProfileID points into.
const (
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
	RoleAdmin   = "Admin"
)

type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName          string             `bson:"firstName" json:"firstName"`
	LastName           string             `bson:"lastName" json:"lastName"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"` // Hide from JSON responses
	PhoneNumber        string             `bson:"phone_number" json:"phone_number"`
	Age                int                `bson:"age" json:"age"`
	Gender             string             `bson:"gender" json:"gender"` // "Male", "Female", "Other"
	Role               string             `bson:"role" json:"role"`
	ProfileID          primitive.ObjectID `bson:"profileId,omitempty" json:"profileId,omitempty"`
	ResetPasswordToken string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExp   time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileCollection returns the collection the user's profile lives in,
// or "" for roles without one (Admin).
func (u *User) ProfileCollection() string {
	switch u.Role {
	case RolePatient:
		return "patients"
	case RoleDoctor:
		return "doctors"
	}
	return ""
}
