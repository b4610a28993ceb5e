package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresMongoURI(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Setenv("JWT_SECRET", "secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("MONGO_URI")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	os.Setenv("JWT_SECRET", "secret")
	defer os.Unsetenv("MONGO_URI")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MongoDatabase != "meditrack" {
		t.Errorf("expected default database meditrack, got %s", cfg.MongoDatabase)
	}
	if cfg.MailPort != "587" {
		t.Errorf("expected default mail port 587, got %s", cfg.MailPort)
	}
}
