package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// CheckStateCompatibility checks whether a classifier state written with
// stateVersion can be loaded by a binary expecting wantVersion.
//
// Compatibility Rules:
//   - "main" on either side skips the check (development builds)
//   - Major and minor versions must match exactly
//   - Patch versions can differ
//
// Examples:
//   - want 1.0.0, state 1.0.3 -> OK
//   - want 1.1.0, state 1.0.0 -> ERROR (minor differs)
//   - want 2.0.0, state 1.0.0 -> ERROR (major differs)
func CheckStateCompatibility(wantVersion, stateVersion string) error {
	wantVersion = strings.TrimPrefix(wantVersion, "v")
	stateVersion = strings.TrimPrefix(stateVersion, "v")

	if wantVersion == "main" || stateVersion == "main" {
		return nil
	}

	want, err := semver.NewVersion(wantVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid expected version '%s'", wantVersion)
	}

	got, err := semver.NewVersion(stateVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid state version '%s'", stateVersion)
	}

	if want.Major() != got.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: expected %d.x.x but state is %d.x.x",
			want.Major(), got.Major())
	}

	if want.Minor() != got.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: expected %d.%d.x but state is %d.%d.x",
			want.Major(), want.Minor(), got.Major(), got.Minor())
	}

	return nil
}
