package utils

import (
	"errors"
	"net"
	"strings"
)

// EmailDomainHasMX reports whether the address's domain publishes at
// least one mail exchanger. Used as a cheap deliverability check before
// sending OTP or reset mail.
func EmailDomainHasMX(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return errors.New("malformed email address")
	}
	domain := email[at+1:]

	records, err := net.LookupMX(domain)
	if err != nil || len(records) == 0 {
		return errors.New("email domain has no mail exchanger")
	}
	return nil
}
