package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Version is the build reported in logs and reports.
var Version string

const NoVersion = "no_version_info"

// resolveVersion prefers the linker flag, then the configured version.
func resolveVersion(c *Conf, versionByBuildFlag string) string {
	switch {
	case versionByBuildFlag != "":
		return versionByBuildFlag
	case c != nil && c.Version != "":
		return c.Version
	default:
		return NoVersion
	}
}

func SetVersion(c *Conf, versionByBuildFlag string) {
	Version = resolveVersion(c, versionByBuildFlag)
	zap.L().Info(fmt.Sprintf("qtelemetry version is %s", Version))
}
