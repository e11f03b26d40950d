// Package version exposes the build version string.
package version

// Version is the release identifier. Overridable at build time via
// -ldflags "-X skydrift/pkg/version.Version=...".
var Version = "0.3.0"
