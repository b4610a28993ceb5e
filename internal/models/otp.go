package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpTTL is how long a verification code stays usable. Expired records
// are evicted by the store's TTL index, not by application code.
const OtpTTL = 5 * time.Minute

type Otp struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Otp       string             `bson:"otp" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
