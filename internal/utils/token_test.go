package utils

import "testing"

func TestNewResetToken(t *testing.T) {
	raw, hashed := NewResetToken()
	if raw == "" || hashed == "" {
		t.Fatal("expected non-empty token and hash")
	}
	if raw == hashed {
		t.Fatal("raw token must not equal its stored hash")
	}
	if HashToken(raw) != hashed {
		t.Error("hashing the raw token must reproduce the stored hash")
	}
}

func TestNewResetToken_Distinct(t *testing.T) {
	a, _ := NewResetToken()
	b, _ := NewResetToken()
	if a == b {
		t.Error("two issued tokens must differ")
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("expected deterministic hash")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("expected different inputs to hash differently")
	}
}
