package main

import "runtime/debug"

var version = buildVersion()

// buildVersion derives a version string from VCS stamping, falling back
// to "dev" for non-VCS builds.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	revision := "dev"
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				revision = s.Value[:7]
			} else if s.Value != "" {
				revision = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return revision + "-dirty"
	}
	return revision
}
