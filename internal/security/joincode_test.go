package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateJoinCode(t *testing.T) {
	t.Run("uses only the safe alphabet", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := GenerateJoinCode()
			assert.Len(t, code, JoinCodeLength)
			for _, r := range code {
				assert.True(t, strings.ContainsRune(JoinCodeAlphabet, r),
					"unexpected character %q in code %s", r, code)
			}
		}
	})

	t.Run("alphabet excludes confusable characters", func(t *testing.T) {
		for _, c := range "01OI" {
			assert.False(t, strings.ContainsRune(JoinCodeAlphabet, c))
		}
	})
}

func TestCleanJoinCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ABC234", "ABC234"},
		{"abc234", "ABC234"},
		{"ABC-234", "ABC234"},
		{" abc 234 ", "ABC234"},
		{"a-b-c-2-3-4", "ABC234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanJoinCode(tt.input), "input %q", tt.input)
	}
}

func TestValidateJoinCode(t *testing.T) {
	t.Run("accepts well-formed codes", func(t *testing.T) {
		assert.NoError(t, ValidateJoinCode("ABC234"))
		assert.NoError(t, ValidateJoinCode("ZZZZZZ"))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		assert.Error(t, ValidateJoinCode("ABC23"))
		assert.Error(t, ValidateJoinCode("ABC2345"))
		assert.Error(t, ValidateJoinCode(""))
	})

	t.Run("rejects characters outside the alphabet", func(t *testing.T) {
		assert.Error(t, ValidateJoinCode("ABC230")) // zero
		assert.Error(t, ValidateJoinCode("ABC23I")) // capital i
		assert.Error(t, ValidateJoinCode("abc234")) // lowercase, must clean first
	})
}

func TestFormatJoinCode(t *testing.T) {
	assert.Equal(t, "ABC-234", FormatJoinCode("ABC234"))
	assert.Equal(t, "SHORT", FormatJoinCode("SHORT"))
}

func TestJoinCodeRoundTrip(t *testing.T) {
	// Formatted output must clean back to the stored form.
	for i := 0; i < 20; i++ {
		code := GenerateJoinCode()
		assert.Equal(t, code, CleanJoinCode(FormatJoinCode(code)))
	}
}
