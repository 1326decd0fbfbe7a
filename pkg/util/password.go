package util

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12
	// bcrypt rejects longer input with ErrPasswordTooLong.
	maxPasswordBytes = 72
)

// ErrWeakPassword is returned when a password misses one or more policy rules.
var ErrWeakPassword = errors.New("password does not meet strength requirements")

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// Requirement is one line of the strength checklist shown next to a password field.
type Requirement struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
}

type passwordRule struct {
	label string
	rule  validation.Rule
}

var passwordRules = []passwordRule{
	{label: "At least 8 characters", rule: validation.Length(8, 0)},
	{label: "Uppercase letter", rule: validation.Match(regexp.MustCompile(`[A-Z]`))},
	{label: "Lowercase letter", rule: validation.Match(regexp.MustCompile(`[a-z]`))},
	{label: "Number", rule: validation.Match(regexp.MustCompile(`[0-9]`))},
	{label: "Special character", rule: validation.Match(regexp.MustCompile(`[^A-Za-z0-9]`))},
	{label: "At most 72 bytes", rule: validation.Length(0, maxPasswordBytes)},
}

// PasswordRequirements evaluates every rule of the credential policy.
func PasswordRequirements(password string) []Requirement {
	reqs := make([]Requirement, 0, len(passwordRules))
	for _, r := range passwordRules {
		// ozzo rules skip empty values, so Required makes "" fail every rule.
		err := validation.Validate(password, validation.Required, r.rule)
		reqs = append(reqs, Requirement{Label: r.label, Passed: err == nil})
	}
	return reqs
}

// PolicyError names the rules a password failed. It matches ErrWeakPassword.
type PolicyError struct {
	Missing []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrWeakPassword, strings.Join(e.Missing, ", "))
}

func (e *PolicyError) Unwrap() error {
	return ErrWeakPassword
}

// ValidatePasswordStrength returns a *PolicyError listing the unmet rules, or nil.
func ValidatePasswordStrength(password string) error {
	var missing []string
	for _, req := range PasswordRequirements(password) {
		if !req.Passed {
			missing = append(missing, strings.ToLower(req.Label))
		}
	}
	if len(missing) > 0 {
		return &PolicyError{Missing: missing}
	}
	return nil
}
