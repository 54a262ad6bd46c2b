package version

// Version is the current version of the screener.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-screener/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// StateFormat is the version of the persisted classifier state layout.
// Bump the minor version whenever the serialized forest or scaler changes shape.
const StateFormat = "1.0.0"

// GetVersion returns the current version of the screener.
func GetVersion() string {
	return Version
}
