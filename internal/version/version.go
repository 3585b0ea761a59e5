// Package version identifies the smartui-migrate build that produced a report.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Version is the semantic version of smartui-migrate
const Version = "0.3.0"

// Set at link time:
//
//	go build -ldflags "-X github.com/RushilK7/smartui-migration-tool-sub004/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns the bare version
func Info() string {
	return Version
}

// FullInfo returns the version line printed by `smartui-migrate version`
func FullInfo() string {
	return fmt.Sprintf("smartui-migrate %s (commit: %s, built: %s, build: %s)", Version, GitCommit, BuildDate, BuildID())
}

var buildID = sync.OnceValue(computeBuildID)

// BuildID fingerprints the running binary so a migration summary can be
// traced to the build that rewrote the files. Two binaries built from the
// same revision with the same toolchain share an ID.
func BuildID() string {
	return buildID()
}

func computeBuildID() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version + "-" + GitCommit
	}

	d := xxhash.New()
	_, _ = d.WriteString(info.GoVersion)
	_, _ = d.WriteString(info.Main.Path)
	_, _ = d.WriteString(info.Main.Version)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision", "vcs.modified", "vcs.time", "GOOS", "GOARCH":
			_, _ = d.WriteString(s.Key + "=" + s.Value)
		}
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
