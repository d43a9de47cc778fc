// Package misc keeps build time program identity.
package misc

import "runtime/debug"

// Set with -ldflags "-X stylo/misc.version=... -X stylo/misc.githash=..."
var (
	appName = "stylo"
	version = "dev"
	githash = ""
)

// GetAppName returns program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash set at link time or, failing that, the
// revision recorded by the go tool.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
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
