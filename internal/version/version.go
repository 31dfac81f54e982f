// Package version exposes build metadata injected at link time.
package version

// Populated via -ldflags "-X .../internal/version.Version=... etc." by the release build.
var (
	// Version is the application version.
	Version = "1.0.0"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Short returns just the version number.
func Short() string {
	return Version
}

// Full returns the version, commit and build time in a single line.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
