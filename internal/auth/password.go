package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 12

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// specialChars are the characters that satisfy the special-character rule.
const specialChars = "!@#$%^&*()_-+=[]{};:'\"\\|,.<>/?`~"

// Checklist reports which password rules a candidate satisfies. Letter
// and digit classes are ASCII only.
type Checklist struct {
	Length    bool `json:"length"`
	MaxLength bool `json:"maxLength"`
	Lower     bool `json:"lower"`
	Upper     bool `json:"upper"`
	Digit     bool `json:"digit"`
	Special   bool `json:"special"`
	Match     bool `json:"match"`
}

// CheckPassword evaluates password and its confirmation against every rule.
func CheckPassword(password, confirm string) Checklist {
	c := Checklist{
		Length:    len([]rune(password)) >= MinPasswordLength,
		MaxLength: len(password) <= MaxPasswordBytes,
		Match:     password != "" && password == confirm,
	}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= '0' && r <= '9':
			c.Digit = true
		case strings.ContainsRune(specialChars, r):
			c.Special = true
		}
	}
	return c
}

// OK reports whether every rule passes.
func (c Checklist) OK() bool {
	return len(c.Failing()) == 0
}

// Failing lists the names of the rules that do not pass.
func (c Checklist) Failing() []string {
	var out []string
	for _, r := range []struct {
		name string
		ok   bool
	}{
		{"length", c.Length},
		{"maxLength", c.MaxLength},
		{"lower", c.Lower},
		{"upper", c.Upper},
		{"digit", c.Digit},
		{"special", c.Special},
		{"match", c.Match},
	} {
		if !r.ok {
			out = append(out, r.name)
		}
	}
	return out
}

// Lines returns a human-readable checklist, one rule per line.
func (c Checklist) Lines() []string {
	mark := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "✗"
	}
	lines := []string{
		mark(c.Length) + " At least 12 characters",
		mark(c.Lower) + " One lowercase letter",
		mark(c.Upper) + " One uppercase letter",
		mark(c.Digit) + " One number",
		mark(c.Special) + " One special character",
		mark(c.Match) + " Passwords match",
	}
	if !c.MaxLength {
		lines = append(lines, mark(false)+" At most 72 bytes")
	}
	return lines
}

// ValidatePassword returns a WEAK_PASSWORD error naming the failing rules.
func ValidatePassword(password, confirm string) error {
	c := CheckPassword(password, confirm)
	if c.OK() {
		return nil
	}
	failing := c.Failing()
	if len(failing) == 1 && failing[0] == "match" {
		return clierr.New(clierr.WeakPassword, "passwords do not match").
			WithDetails(map[string]any{"failing": failing})
	}
	return clierr.New(clierr.WeakPassword, "password does not meet requirements").
		WithDetails(map[string]any{"failing": failing, "checklist": c})
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", clierr.Newf(clierr.WeakPassword, "password is longer than %d bytes", MaxPasswordBytes).
			WithDetails(map[string]any{"failing": []string{"maxLength"}})
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
