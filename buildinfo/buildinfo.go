// Package buildinfo reports how the running binary was built, from the
// module metadata the Go linker embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

type BuildInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (b BuildInfo) String() string {
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	}
	mod := ""
	if b.Modified {
		mod = " (modified working tree)"
	}
	return fmt.Sprintf("%s built with %s from commit %s at %s%s", b.Package, b.GoVersion, commit, b.CommitTime, mod)
}

// Get reads the embedded build metadata. Fields stay empty when the binary
// was built outside version control.
func Get() BuildInfo {
	out := BuildInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
