// Package version exposes the petmatch build metadata reported by the
// health endpoint and startup logs.
package version

//nolint:revive // Overwritten with ldflags by the release build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
