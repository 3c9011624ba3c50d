// Package misc holds program identification, set at build time.
package misc

import (
	"runtime/debug"
)

const appName = "twc"

// set with -ldflags "-X twc/misc.version=... -X twc/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns source revision program was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
