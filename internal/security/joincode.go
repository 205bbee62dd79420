package security

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// JoinCodeAlphabet excludes visually confusable characters (0/O, 1/I).
const JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// JoinCodeLength is the fixed length of a session join code.
const JoinCodeLength = 6

// GenerateJoinCode returns a random candidate code. Uniqueness against
// active sessions is the allocator's job, not this function's.
func GenerateJoinCode() string {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	for i := 0; i < JoinCodeLength; i++ {
		b.WriteByte(JoinCodeAlphabet[rand.IntN(len(JoinCodeAlphabet))])
	}
	return b.String()
}

// CleanJoinCode strips hyphens and whitespace and uppercases, so that user
// input like "abc-234" matches the stored form.
func CleanJoinCode(code string) string {
	code = strings.ReplaceAll(code, "-", "")
	code = strings.Join(strings.Fields(code), "")
	return strings.ToUpper(code)
}

// ValidateJoinCode checks the cleaned code's length and alphabet before any
// storage lookup happens.
func ValidateJoinCode(code string) error {
	if len(code) != JoinCodeLength {
		return fmt.Errorf("join code must be %d characters", JoinCodeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(JoinCodeAlphabet, r) {
			return fmt.Errorf("join code contains invalid character %q", r)
		}
	}
	return nil
}

// FormatJoinCode renders a code for display (ABC-234). Codes of unexpected
// length pass through unchanged.
func FormatJoinCode(code string) string {
	if len(code) != JoinCodeLength {
		return code
	}
	return code[:3] + "-" + code[3:]
}
