// Package version reports what build is running
package version

import (
	"runtime/debug"
	"sync"
)

// set with -ldflags "-X feedline/internal/core/version.version=v0.1.0 -X ...commit=abcd -X ...date=2026-10-01"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo is served by /meta/version
type BuildInfo struct {
	Service string `json:"service" example:"feedline-api"`
	Version string `json:"version" example:"v0.1.0"`
	Commit  string `json:"commit"  example:"4f2c1e9"`
	Date    string `json:"date"    example:"2026-10-01T08:00:00Z"`
}

var vcs = sync.OnceValues(func() (rev, at string) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return rev, at
})

// Info prefers linker supplied values and falls back to the vcs stamp the go
// tool embeds, then to "none" and "unknown"
func Info() BuildInfo {
	rev, at := vcs()
	return BuildInfo{
		Service: "feedline-api",
		Version: version,
		Commit:  first(commit, rev, "none"),
		Date:    first(date, at, "unknown"),
	}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
