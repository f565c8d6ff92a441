// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Values are injected at build time, e.g.
// -ldflags "-X github.com/smazurov/lichtwerk/internal/version.Version=v1.2.0".
var (
	// Version is the release tag of the controller, "dev" for local builds.
	Version = "dev"
	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
	// BuildDate is the UTC build timestamp in RFC 3339 form.
	BuildDate = "unknown"
)

// Info is the build metadata reported by /api/version and `lichtwerk version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns version and build information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent identifies the CLI and sync agent to a controller.
func UserAgent() string {
	return "lichtwerk/" + Version
}

// String formats the build metadata on one line for the version command.
func (i Info) String() string {
	return fmt.Sprintf("lichtwerk %s (commit %s, built %s, %s %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
