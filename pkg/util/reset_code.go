package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeSpace selects the numeric range reset codes are drawn from.
type CodeSpace string

const (
	// CodeSpaceFull draws from 000000-999999.
	CodeSpaceFull CodeSpace = "full"
	// CodeSpaceLegacy draws from 100000-999999, matching codes issued by the old web client.
	CodeSpaceLegacy CodeSpace = "legacy"
)

const ResetCodeLength = 6

// ParseCodeSpace maps a config value onto a CodeSpace, defaulting to full.
func ParseCodeSpace(s string) CodeSpace {
	if CodeSpace(strings.ToLower(strings.TrimSpace(s))) == CodeSpaceLegacy {
		return CodeSpaceLegacy
	}
	return CodeSpaceFull
}

// GenerateResetCode returns a crypto-random 6-digit code from the given space.
func GenerateResetCode(space CodeSpace) (string, error) {
	var (
		base  int64
		count int64 = 1000000
	)
	if space == CodeSpaceLegacy {
		base, count = 100000, 900000
	}

	n, err := rand.Int(rand.Reader, big.NewInt(count))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", base+n.Int64()), nil
}

// IsNumericCode reports whether s is exactly six ASCII digits.
func IsNumericCode(s string) bool {
	if len(s) != ResetCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
