package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Input length constraints
const (
	MaxUserNameLength = 50
	MinNameLength     = 1
)

var (
	// PocketBase ID regex - 15 character alphanumeric
	pocketbaseIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]{15}$`)
	// UUID validation regex (participant ids are client-generated UUIDs)
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// Name validation regex - Unicode letters, digits, spaces, apostrophes, hyphens, underscores, dots
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
	// Dangerous characters that could be used for injection attacks
	dangerousCharsRegex = regexp.MustCompile(`[<>{}[\]\\;|&$()` + "`" + `]`)
	// US zip code: 5 digits or ZIP+4 after stripping spaces and hyphens
	zipDigitsRegex = regexp.MustCompile(`^(\d{5}|\d{9})$`)
)

// ValidateID validates a record or participant identifier: either a
// 15-character PocketBase record id or a UUID.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}

	if pocketbaseIDRegex.MatchString(id) {
		return nil
	}

	if uuidRegex.MatchString(strings.ToLower(id)) {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("malformed UUID: %w", err)
		}
		return nil
	}

	return fmt.Errorf("invalid ID format (expected 15-character record ID or UUID)")
}

// ValidateUserName validates and sanitizes a participant display name.
func ValidateUserName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	if len(name) < MinNameLength {
		return "", fmt.Errorf("name too short (min %d characters)", MinNameLength)
	}

	if len(name) > MaxUserNameLength {
		return "", fmt.Errorf("name too long (max %d characters)", MaxUserNameLength)
	}

	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters (allowed: letters, numbers, spaces, apostrophes, hyphens, underscores, dots)")
	}

	if dangerousCharsRegex.MatchString(name) {
		return "", fmt.Errorf("name contains potentially dangerous characters")
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	return name, nil
}

// CleanZipCode strips spaces and hyphens from a US zip code.
func CleanZipCode(zip string) string {
	zip = strings.ReplaceAll(zip, "-", "")
	return strings.Join(strings.Fields(zip), "")
}

// ValidateZipCode checks for a 5-digit or ZIP+4 US zip code. Runs before any
// network call so malformed input never reaches the geocoder.
func ValidateZipCode(zip string) error {
	cleaned := CleanZipCode(zip)
	if !zipDigitsRegex.MatchString(cleaned) {
		return fmt.Errorf("invalid zip code format (expected 5-digit US zip code)")
	}
	return nil
}

// SanitizeErrorMessage removes sensitive information from error messages
// before they reach a client.
func SanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())

	sensitivePatterns := []string{
		"sql",
		"database",
		"collection",
		"pocketbase",
		"constraint",
		"unique",
		"duplicate key",
		"no rows",
	}

	for _, pattern := range sensitivePatterns {
		if strings.Contains(errStr, pattern) {
			return "An error occurred while processing your request"
		}
	}

	return err.Error()
}
