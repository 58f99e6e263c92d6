package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

func TestValidateHandle(t *testing.T) {
	tests := []struct {
		name    string
		handle  string
		wantErr string
	}{
		{name: "valid lowercase", handle: "alice"},
		{name: "valid mixed", handle: "Alice_1-b"},
		{name: "minimum length", handle: "abc"},
		{name: "maximum length", handle: strings.Repeat("a", 20)},
		{name: "empty", handle: "", wantErr: "Username cannot be empty"},
		{name: "too short", handle: "ab", wantErr: "Username must be between 3 and 20 characters"},
		{name: "too long", handle: strings.Repeat("a", 21), wantErr: "Username must be between 3 and 20 characters"},
		{name: "spaces", handle: "alice smith", wantErr: "Username can only contain letters, numbers, underscores, and hyphens"},
		{name: "punctuation", handle: "alice!", wantErr: "Username can only contain letters, numbers, underscores, and hyphens"},
		{name: "unicode", handle: "ålice", wantErr: "Username can only contain letters, numbers, underscores, and hyphens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHandle(tt.handle)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)

			var customErr *apperrors.CustomError
			require.ErrorAs(t, err, &customErr)
			assert.Equal(t, tt.wantErr, customErr.Message)
		})
	}
}
