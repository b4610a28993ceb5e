package services

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// MailService delivers transactional email (OTP codes, password-reset
// links) over SMTP. A send failure never rolls back records already
// persisted; callers decide whether to surface it.
type MailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailService(host, port, user, pass, from string) *MailService {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &MailService{
		dialer: gomail.NewDialer(host, p, user, pass),
		from:   from,
	}
}

// Send delivers one HTML email.
func (s *MailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("mail delivery failed")
		return err
	}
	log.Info().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

// SendOTP emails a verification code.
func (s *MailService) SendOTP(to, code string) error {
	return s.Send(to, "Verification Code", OtpTemplate(code))
}

// SendPasswordReset emails a reset link carrying the raw token.
func (s *MailService) SendPasswordReset(to, resetURL string) error {
	return s.Send(to, "Password Reset", ResetTemplate(resetURL))
}

// OtpTemplate renders the verification-code email body.
func OtpTemplate(code string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif">
	<h2>MediTrack</h2>
	<p>Your verification code is:</p>
	<h1 style="letter-spacing:4px">%s</h1>
	<p>The code expires in 5 minutes.</p>
</div>`, code)
}

// ResetTemplate renders the password-reset email body.
func ResetTemplate(resetURL string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif">
	<h2>MediTrack</h2>
	<p>We received a request to reset your password. The link below is
	valid for 15 minutes:</p>
	<p><a href="%s">%s</a></p>
	<p>If you did not request this, you can ignore this email.</p>
</div>`, resetURL, resetURL)
}
