package display

import (
	"fmt"
	"strings"

	"github.com/chriso345/argot/core"
	"github.com/chriso345/argot/internal/common"
)

// BuildVersion returns a formatted version string for the CLI tool defined
// by the provided struct pointer.
func BuildVersion(target any) (string, error) {
	r, err := core.FromStruct(target)
	if err != nil {
		return "", err
	}
	return Version(r.Name(), r.Version()), nil
}

// Version formats "name vX.Y.Z". An empty or unknown version is inferred
// from the build info of the main module.
func Version(name, version string) string {
	if version == "" || version == "(unknown)" {
		inferred, ok := common.InferVersion()
		if !ok {
			return "No version specified"
		}
		version = inferred
	}

	if name != "" {
		name = name + " "
	}

	return fmt.Sprintf("%sv%s", name, strings.TrimPrefix(version, "v"))
}
