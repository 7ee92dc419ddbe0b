package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds item keys; real keys are a handful of words.
const maxKeyLength = 256

// ValidateKey validates an item key of the form "section:code".
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - Exactly one section separator with non-empty sides
//   - No control characters
//   - Maximum length of 256 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key %q contains control characters", key)
		}
	}
	section, code, ok := strings.Cut(key, ":")
	if !ok {
		return New(ErrCodeInvalidKey, "key %q is missing the section separator", key)
	}
	if strings.TrimSpace(section) == "" || strings.TrimSpace(code) == "" {
		return New(ErrCodeInvalidKey, "key %q must have a section and a code", key)
	}
	if strings.Contains(code, ":") {
		return New(ErrCodeInvalidKey, "key %q has more than one section separator", key)
	}
	return nil
}

// ValidateFilename validates an artifact filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a directory or file path from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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
