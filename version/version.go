package version

import (
	"runtime/debug"
	"sync"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/kbukum/partitionflow"

// Version is set at build time using -ldflags. "dev" means unset.
var Version = "dev"

var (
	resolveOnce sync.Once
	resolved    string
)

// Get returns the library version: Version when set at build time, else the
// version recorded for this module in the build info, else "dev".
func Get() string {
	if Version != "dev" {
		return Version
	}
	resolveOnce.Do(func() {
		resolved = fromBuildInfo(debug.ReadBuildInfo())
	})
	return resolved
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil {
		return "dev"
	}
	if info.Main.Path == ModulePath && isTagged(info.Main.Version) {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil && isTagged(dep.Replace.Version) {
			return dep.Replace.Version
		}
		if isTagged(dep.Version) {
			return dep.Version
		}
	}
	return "dev"
}

func isTagged(v string) bool {
	return v != "" && v != "(devel)"
}
