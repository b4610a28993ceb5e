package services

import (
	"strings"
	"testing"
)

func TestOtpTemplate(t *testing.T) {
	body := OtpTemplate("123456")
	if !strings.Contains(body, "123456") {
		t.Error("expected the code in the rendered body")
	}
	if !strings.Contains(body, "5 minutes") {
		t.Error("expected the expiry notice in the rendered body")
	}
}

func TestResetTemplate(t *testing.T) {
	url := "https://app.example.com/reset-password/tok-abc"
	body := ResetTemplate(url)
	if !strings.Contains(body, url) {
		t.Error("expected the reset URL in the rendered body")
	}
}

func TestNewMailService_BadPortFallsBack(t *testing.T) {
	s := NewMailService("smtp.example.com", "not-a-port", "u", "p", "from@example.com")
	if s == nil {
		t.Fatal("expected a mail service")
	}
}
