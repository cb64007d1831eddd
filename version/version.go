// Package version reports the version of the humsynth binaries.
package version

import "runtime/debug"

// Version can be set at build time with
// go build -ldflags "-X github.com/humsynth/humsynth/version.Version=$(git describe --dirty)"
var Version string

// String returns Version, or the short VCS revision the binary was built
// from, or "devel" when neither is known.
func String() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	var revision, dirty string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision == "" {
		return "devel"
	}
	return revision + dirty
}
