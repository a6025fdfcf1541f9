// Package version holds the build version, set at link time.
package version

// Version is the sitegen release version. Overridden via
// -ldflags "-X github.com/resumedj/sitegen/internal/version.Version=...".
var Version = "dev"
