package mediatag

import "runtime"

// Version is the semantic version of the mediatag module.
const Version = "0.3.0"

// VersionInfo describes the build.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// GetVersionInfo returns the build information. GitCommit and BuildTime
// are set with -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/mediatag.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/mediatag.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
