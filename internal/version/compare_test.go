package version

import (
	"testing"

	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStateCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		wantVersion   string
		stateVersion  string
		expectError   bool
		expectCode    errors.ErrorCode
		errorContains string
	}{
		{
			name:         "exact match",
			wantVersion:  "1.0.0",
			stateVersion: "1.0.0",
		},
		{
			name:         "state patch higher",
			wantVersion:  "1.0.0",
			stateVersion: "1.0.4",
		},
		{
			name:         "state patch lower",
			wantVersion:  "1.2.7",
			stateVersion: "1.2.0",
		},
		{
			name:          "minor differs",
			wantVersion:   "1.1.0",
			stateVersion:  "1.0.0",
			expectError:   true,
			expectCode:    errors.ErrCodeVersionMismatch,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major differs",
			wantVersion:   "2.0.0",
			stateVersion:  "1.0.0",
			expectError:   true,
			expectCode:    errors.ErrCodeVersionMismatch,
			errorContains: "major version mismatch",
		},
		{
			name:         "development state",
			wantVersion:  "1.0.0",
			stateVersion: "main",
		},
		{
			name:         "v prefix",
			wantVersion:  "v1.0.0",
			stateVersion: "1.0.2",
		},
		{
			name:         "prerelease",
			wantVersion:  "1.0.0-rc.1",
			stateVersion: "1.0.0",
		},
		{
			name:          "invalid state version",
			wantVersion:   "1.0.0",
			stateVersion:  "latest",
			expectError:   true,
			expectCode:    errors.ErrCodeInvalidVersion,
			errorContains: "invalid state version",
		},
		{
			name:          "empty expected version",
			wantVersion:   "",
			stateVersion:  "1.0.0",
			expectError:   true,
			expectCode:    errors.ErrCodeInvalidVersion,
			errorContains: "invalid expected version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStateCompatibility(tt.wantVersion, tt.stateVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.expectCode))
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStateFormatIsSemver(t *testing.T) {
	require.NoError(t, CheckStateCompatibility(StateFormat, StateFormat))
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
