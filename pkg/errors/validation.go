package errors

import (
	"strings"
	"unicode"
)

// maxTagLength bounds equipment and instrument tags.
const maxTagLength = 64

// ValidateTag validates an equipment tag for use as an identifier.
//
// The rules are intentionally conservative:
//   - No empty tags
//   - No control characters
//   - Maximum length of 64 characters
//
// Instrument tags are not validated here; malformed instrument tags are
// defaulted by the instrumentation engine instead of rejected.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}
	if len(tag) > maxTagLength {
		return New(ErrCodeInvalidTag, "tag %.16q... too long (max %d characters)", tag, maxTagLength)
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "tag %q contains control characters", tag)
		}
	}
	return nil
}

// ValidateCanvas checks that the canvas dimensions leave a drawable area.
// Zero or negative dimensions, negative margins, and margins that consume the
// whole canvas are configuration errors.
func ValidateCanvas(width, height, margin float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidConfig, "canvas dimensions must be positive, got %vx%v", width, height)
	}
	if margin < 0 {
		return New(ErrCodeInvalidConfig, "canvas margin cannot be negative, got %v", margin)
	}
	if 2*margin >= width || 2*margin >= height {
		return New(ErrCodeInvalidConfig, "canvas margin %v leaves no drawable area in %vx%v", margin, width, height)
	}
	return nil
}

// ValidatePositive checks that a named numeric setting is greater than zero.
func ValidatePositive(name string, v float64) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
