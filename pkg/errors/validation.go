package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// scenarioNameRegex matches scenario names usable as command arguments and
// cache key components.
var scenarioNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// ValidateScenarioName validates a scenario name.
//
// Names are lowercase, dash separated and at most 64 characters, e.g.
// "social-preview".
func ValidateScenarioName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScenario, "scenario name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidScenario, "scenario name too long (max 64 characters)")
	}
	if !scenarioNameRegex.MatchString(name) {
		return New(ErrCodeInvalidScenario, "invalid scenario name: %q", name)
	}
	return nil
}

// ValidateOutputPath validates the file a render writes to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}

	return nil
}

// hexColorRegex matches "#rrggbb" and "#rrggbbaa".
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a color written as "#rrggbb" or "#rrggbbaa".
func ValidateHexColor(s string) error {
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #rrggbb)", s)
	}
	return nil
}
