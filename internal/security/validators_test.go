package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// PocketBase ID format (15 alphanumeric characters)
		{"valid pocketbase id", "abc123def456ghi", false},
		{"valid pocketbase id uppercase", "ABC123DEF456GHI", false},

		// UUID format (client-generated participant ids)
		{"valid uuid v4", "550e8400-e29b-41d4-a716-446655440000", false},
		{"valid uuid uppercase", "550E8400-E29B-41D4-A716-446655440000", false},

		// Invalid cases
		{"empty", "", true},
		{"too short", "abc", true},
		{"too long pocketbase", "abc123def456ghijkl", true},
		{"pocketbase with dash", "abc-123-def-456", true},
		{"invalid uuid", "not-a-uuid", true},
		{"sql injection", "' OR '1'='1", true},
		{"xss attempt", "<script>alert('xss')</script>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUserName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		// Valid cases
		{"valid simple name", "Alice", "Alice", false},
		{"valid with space", "Alice Smith", "Alice Smith", false},
		{"valid with apostrophe", "O'Brien", "O'Brien", false},
		{"valid with hyphen", "Mary-Jane", "Mary-Jane", false},
		{"valid with leading space", "  Alice", "Alice", false},
		{"valid unicode letters", "José", "José", false},
		{"maximum length", strings.Repeat("a", 50), strings.Repeat("a", 50), false},

		// Invalid cases
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("a", 51), "", true},
		{"xss attempt", "<script>alert('xss')</script>", "", true},
		{"sql injection", "'; DROP TABLE sessions--", "", true},
		{"special chars", "Alice @ Home", "", true},
		{"control characters", "Alice\nSmith", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUserName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestZipCodeValidation(t *testing.T) {
	t.Run("clean strips spaces and hyphens", func(t *testing.T) {
		assert.Equal(t, "37402", CleanZipCode(" 374 02 "))
		assert.Equal(t, "374021234", CleanZipCode("37402-1234"))
	})

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"five digits", "37402", false},
		{"zip plus four", "37402-1234", false},
		{"with spaces", " 37402 ", false},
		{"too short", "3740", true},
		{"too long", "374021", true},
		{"letters", "3740a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateZipCode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	t.Run("masks storage details", func(t *testing.T) {
		masked := []error{
			errors.New("UNIQUE constraint failed: sessions.join_code"),
			errors.New("sql: no rows in result set"),
			errors.New("failed to find collection"),
		}
		for _, err := range masked {
			assert.Equal(t, "An error occurred while processing your request", SanitizeErrorMessage(err))
		}
	})

	t.Run("passes through user-facing errors", func(t *testing.T) {
		err := errors.New("join code must be 6 characters")
		assert.Equal(t, "join code must be 6 characters", SanitizeErrorMessage(err))
	})

	t.Run("nil yields empty string", func(t *testing.T) {
		assert.Equal(t, "", SanitizeErrorMessage(nil))
	})
}
