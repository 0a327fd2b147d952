package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxProfileNameLength bounds store keys and file names derived from them.
const maxProfileNameLength = 128

// profileNameRegex matches names safe to use as file names and store keys.
var profileNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProfileName validates a learning profile name for safety.
// Profile names become file names and database keys, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 128 characters
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProfile, "profile name cannot be empty")
	}

	if len(name) > maxProfileNameLength {
		return New(ErrCodeInvalidProfile, "profile name too long (max %d characters)", maxProfileNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProfile, "profile name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidProfile, "profile name contains invalid characters: %q", pattern)
		}
	}

	if !profileNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProfile, "invalid profile name: %q", name)
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values. The field name is used
// in the error message.
func ValidateFinite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", field, v)
		}
	}
	return nil
}
