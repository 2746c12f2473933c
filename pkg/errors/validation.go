package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength is the longest node identifier accepted from documents.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier read from a dependency document.
//
// The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNode, "node ID too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID %q contains control characters", id)
		}
	}

	return nil
}

// ValidateChoice checks that value is one of allowed.
// The code is used for the returned error.
func ValidateChoice(code Code, what, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s %q (want one of: %s)", what, value, strings.Join(allowed, ", "))
}

// ValidatePath validates an input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
