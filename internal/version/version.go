// Package version carries build metadata injected at link time via
// -ldflags "-X github.com/brainviz/connectome-core/internal/version.Version=...".
package version

var (
	// Version is the semantic version of the running binary.
	Version = "dev"
	// GitCommit is the short commit hash the binary was built from.
	GitCommit = "unknown"
	// BuildTime is the UTC build timestamp in RFC3339 format.
	BuildTime = ""
)
