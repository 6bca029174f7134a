// Package version reports build information for the btevta binary.
package version

import "fmt"

// These variables are set at build time via ldflags, e.g.
//
//	-ldflags "-X github.com/example/btevta/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line printed by `btevta --version`.
func String() string {
	return fmt.Sprintf("btevta %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
