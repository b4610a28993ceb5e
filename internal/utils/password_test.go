package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPasswordHash("hunter22", hash) {
		t.Error("expected the original password to verify")
	}
	if CheckPasswordHash("hunter23", hash) {
		t.Error("expected a different password to fail")
	}
}
