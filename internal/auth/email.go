package auth

import (
	"regexp"
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address format.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !emailPattern.MatchString(email) {
		return clierr.Newf(clierr.InvalidEmail, "please enter a valid email (got %q)", email)
	}
	return nil
}
