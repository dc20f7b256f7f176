package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateName validates one coordinate segment (group, name or version) or
// a project name used as a storage key.
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No ':' (the coordinate separator) or whitespace
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name contains whitespace: %q", name)
		}
	}

	if strings.Contains(name, ":") {
		return New(ErrCodeInvalidInput, "name contains ':': %q", name)
	}

	return nil
}

// ValidateCoordinate validates a "group:name:version" key as used by the
// metadata override maps. All three segments are required.
func ValidateCoordinate(key string) error {
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		return New(ErrCodeInvalidCoordinate, "invalid coordinate %q (expected group:name:version)", key)
	}
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return Wrap(ErrCodeInvalidCoordinate, err, "invalid coordinate %q", key)
		}
	}
	return nil
}

// ValidateSeparator validates a report field separator: exactly one
// printable rune other than '"', '\r' or '\n'.
func ValidateSeparator(sep string) error {
	if utf8.RuneCountInString(sep) != 1 {
		return New(ErrCodeInvalidConfig, "separator must be a single character, got %q", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || (unicode.IsControl(r) && r != '\t') {
		return New(ErrCodeInvalidConfig, "invalid separator %q", sep)
	}
	return nil
}

// ValidatePath validates a file path read from configuration.
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
		if unicode.IsControl(r) {
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
