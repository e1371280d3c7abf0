package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a project-relative asset path.
// It prevents path traversal and keeps paths in the forward-slash form used
// by asset references and file deltas.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateWildcard checks that a grouping or naming template contains
// exactly one '*' placeholder.
func ValidateWildcard(template string) error {
	if template == "" {
		return New(ErrCodeInvalidInput, "template cannot be empty")
	}
	switch n := strings.Count(template, "*"); {
	case n == 0:
		return New(ErrCodeInvalidInput, "template %q must contain a '*' placeholder", template)
	case n > 1:
		return New(ErrCodeInvalidInput, "template %q must contain exactly one '*'", template)
	}
	return nil
}
