package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxIDLength bounds node and edge IDs read from graph files.
const MaxIDLength = 256

// ValidateID validates a node or edge ID read from an external source.
//
// The rules are conservative so IDs stay safe to embed in DOT output and
// terminal views:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of MaxIDLength bytes
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id %q contains control characters", id)
		}
	}

	return nil
}

// ValidatePath validates an input or output file path given on the command
// line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory by its trailing separator
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}

// ValidateExtension checks that path ends in one of the allowed extensions
// (compared case-insensitively, including the dot).
func ValidateExtension(path string, allowed ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file type %q (want one of %s)", ext, strings.Join(allowed, ", "))
}
