package config

import (
	"errors"
	"os"
)

// Config carries every environment-driven setting the server needs.
// Load is the only place the process reads the environment; everything
// downstream receives this struct.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	ClientURL     string

	MailHost string
	MailPort string
	MailUser string
	MailPass string
	MailFrom string
}

// Load reads configuration from the environment. MONGO_URI and JWT_SECRET
// have no sane defaults and are required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("API_PORT", "8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "meditrack"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:3000"),
		MailHost:      os.Getenv("MAIL_HOST"),
		MailPort:      getEnv("MAIL_PORT", "587"),
		MailUser:      os.Getenv("MAIL_USER"),
		MailPass:      os.Getenv("MAIL_PASS"),
		MailFrom:      getEnv("MAIL_FROM", "MediTrack <no-reply@meditrack.app>"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
