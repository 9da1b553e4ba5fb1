package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Version is overridden at link time with -ldflags "-X ...compileinfo.Version=...".
var Version = "devel"

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " (modified after commit)"
	}

	if c.Commit == "" {
		return fmt.Sprintf("%s %s, built with %s", c.Package, c.Version, c.GoVersion)
	}

	return fmt.Sprintf("%s %s, built with %s from commit %s at %s%s", c.Package, c.Version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Get reads the build settings embedded by the go toolchain. Fields that the
// toolchain did not record are left empty.
func Get() CompileInfo {
	out := CompileInfo{Package: "interpolatecm", Version: Version}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	if z.Path != "" {
		out.Package = z.Path
	}
	if Version == "devel" && z.Main.Version != "" && z.Main.Version != "(devel)" {
		out.Version = z.Main.Version
	}
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

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
