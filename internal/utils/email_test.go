package utils

import "testing"

func TestEmailDomainHasMX_Malformed(t *testing.T) {
	for _, email := range []string{"", "plainaddress", "trailing@"} {
		if err := EmailDomainHasMX(email); err == nil {
			t.Errorf("expected error for %q", email)
		}
	}
}
