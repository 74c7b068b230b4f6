package version

import "fmt"

// Build metadata stamped via -ldflags, defaults cover local builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String renders the build metadata as a single line for the version command.
func String() string {
	return fmt.Sprintf("fundingscan %s (commit %s, built %s)", Version, Commit, BuildDate)
}
