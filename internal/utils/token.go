package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ResetTokenLifetime bounds how long a password-reset token is accepted.
const ResetTokenLifetime = 15 * time.Minute

// NewResetToken returns a raw reset token and the hash under which it is
// stored. Only the hash ever touches the database; the raw value goes out
// in the reset email.
func NewResetToken() (raw string, hashed string) {
	raw = uuid.NewString()
	return raw, HashToken(raw)
}

// HashToken derives the storage form of a reset token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
