package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// reservedIDChars are Mermaid grammar delimiters that cannot appear in a bare identifier.
const reservedIDChars = "\"[]{}()|;:,<>`"

// ValidateIdentifier validates a diagram identifier (node id, participant id,
// entity name, ...). Identifiers are emitted unquoted, so they must not contain
// whitespace or grammar delimiters.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeConfig, "identifier cannot be empty")
	}

	const maxIDLength = 256
	if len(id) > maxIDLength {
		return New(ErrCodeConfig, "identifier too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeConfig, "identifier %q contains whitespace or control characters", id)
		}
	}

	if i := strings.IndexAny(id, reservedIDChars); i >= 0 {
		return New(ErrCodeConfig, "identifier %q contains reserved character %q", id, id[i])
	}

	return nil
}

// ValidatePath validates an output file path.
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

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// colorRegex matches CSS hex colors and plain color names.
var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+)$`)

// ValidateColor validates a color value used for backgrounds and box fills.
// Accepts "#rgb", "#rrggbb", "#rrggbbaa" and named colors like "aqua".
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color: %q", color)
	}
	return nil
}
