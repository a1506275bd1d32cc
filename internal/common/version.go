package common

import (
	"runtime/debug"
)

// InferVersion attempts to infer the main module version from build info.
func InferVersion() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, true
	}

	return "", false
}
