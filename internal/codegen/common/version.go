package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/commschamp/commsdslgen/internal/codegen/common.Version=x.y.z"
var Version = ""

const devVersion = "0.0.1-dev"

// ToolVersion is the generator release stamped into generated files and
// exposed as the <NS>_C_VERSION_* macros of the C bindings.
type ToolVersion struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

// ParseToolVersion accepts "x.y", "x.y.z" and either form with a leading
// "v" or a "-suffix" such as "-dirty".
func ParseToolVersion(s string) (ToolVersion, error) {
	base, suffix, _ := strings.Cut(strings.TrimPrefix(s, "v"), "-")
	nums := strings.Split(base, ".")
	if len(nums) < 2 || len(nums) > 3 {
		return ToolVersion{}, fmt.Errorf("invalid version format: %s (expected x.y.z)", s)
	}

	var parts [3]int
	for i, n := range nums {
		v, err := strconv.Atoi(n)
		if err != nil || v < 0 {
			return ToolVersion{}, fmt.Errorf("invalid version format: %s (expected x.y.z)", s)
		}
		parts[i] = v
	}
	return ToolVersion{Major: parts[0], Minor: parts[1], Patch: parts[2], Suffix: suffix}, nil
}

// CurrentVersion parses the build time Version; unstamped development builds
// report 0.0.1-dev.
func CurrentVersion() (ToolVersion, error) {
	if Version == "" {
		return ParseToolVersion(devVersion)
	}
	return ParseToolVersion(Version)
}

func (v ToolVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix != "" {
		s += "-" + v.Suffix
	}
	return s
}
