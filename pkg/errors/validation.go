package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// chartNameRegex matches chart names usable as HTML ids, file stems and URL
// path segments.
var chartNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateChartName validates a chart name. Chart names double as the mount
// point id in the host document and as output file names, so they are
// restricted to letters, digits, dash and underscore, starting with a letter.
func ValidateChartName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidChart, "chart name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidChart, "chart name too long (max 64 characters)")
	}
	if !chartNameRegex.MatchString(name) {
		return New(ErrCodeInvalidChart, "invalid chart name: %q", name)
	}
	return nil
}

// ValidateSourcePath validates a local data file path for safety.
// It prevents path traversal out of the data directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateSourcePath(path string) error {
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// columnNameRegex matches SQL identifiers accepted for table and column names.
var columnNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateIdentifier validates a SQL table identifier, optionally schema
// qualified ("public.social_media").
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "identifier cannot be empty")
	}
	if !columnNameRegex.MatchString(name) {
		return New(ErrCodeInvalidSource, "invalid identifier: %q", name)
	}
	return nil
}
