package validation

import (
	"regexp"

	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

// Handle rules for the username directory
var (
	HandleMinLength = 3
	HandleMaxLength = 20

	// HandlePattern restricts handles to letters, digits, underscore and hyphen
	HandlePattern = `^[A-Za-z0-9_-]+$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Handle *regexp.Regexp
}{
	Handle: regexp.MustCompile(HandlePattern),
}

// ValidateHandle checks a username handle against the directory rules.
// The returned error names the specific violated rule.
func ValidateHandle(handle string) error {
	if handle == "" {
		return apperrors.NewValidationError("Username cannot be empty")
	}

	if len(handle) < HandleMinLength || len(handle) > HandleMaxLength {
		return apperrors.NewValidationError("Username must be between 3 and 20 characters")
	}

	if !CompiledPatterns.Handle.MatchString(handle) {
		return apperrors.NewValidationError("Username can only contain letters, numbers, underscores, and hyphens")
	}

	return nil
}
