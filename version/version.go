// Package version exposes build identification for the running binary.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Info identifies the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// Get assembles build identification from the ldflags version and the
// module's embedded VCS metadata.
func Get() Info {
	info := Info{Version: Version}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
			if len(info.Commit) > 7 {
				info.Commit = info.Commit[:7]
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.BuildTime = t.UTC().Format(time.RFC3339)
			}
		}
	}
	return info
}

// Short returns a compact version string for logs.
func Short() string {
	info := Get()
	s := info.Version
	if info.Commit != "" {
		s = fmt.Sprintf("%s-%s", s, info.Commit)
	}
	if info.Dirty {
		s += "-dirty"
	}
	return s
}
