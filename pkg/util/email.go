package util

import "strings"

// NormalizeEmail trims and lower-cases an address so lookups and limits agree on one key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
