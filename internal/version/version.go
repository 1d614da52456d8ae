// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/docpress/internal/version.Version=v1.0.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for --version.
func String() string {
	return fmt.Sprintf("docpress %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
