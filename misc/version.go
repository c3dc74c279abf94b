// Package misc provides program identification helpers shared by all
// subcommands.
package misc

import "runtime/debug"

const appName = "litgen"

// GetAppName returns short program name to be used in logs, temporary file
// names and generated code headers.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded in the binary build info.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision recorded in the binary build info.
func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
