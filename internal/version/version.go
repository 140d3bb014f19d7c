package version

import (
	"fmt"
	"strings"
)

// Version, CommitSHA, and BuildDate are set via ldflags at build time.
// Example: go build -ldflags "-X .../version.Version=0.1.0 -X .../version.CommitSHA=abc1234 -X .../version.BuildDate=2026-10-19"
var (
	Version   = "0.0.1"
	CommitSHA = "dev"
	BuildDate = "unknown"
)

// Info returns a human-readable version string.
// For dev builds: "0.0.1"
// For release builds: "0.0.1 (abc1234, 2026-10-19)"
func Info() string {
	v := strings.TrimPrefix(Version, "v")
	if CommitSHA == "dev" || CommitSHA == "" {
		return v
	}
	return fmt.Sprintf("%s (%s, %s)", v, CommitSHA, BuildDate)
}
