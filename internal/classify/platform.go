// Package classify scores source files against the signature tables to pick
// a platform or framework when manifests are silent.
package classify

import (
	"sort"
	"strings"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// FileContent is one source file offered to a classifier
type FileContent struct {
	Path    string
	Content []byte
}

// PlatformScore is the content-based platform decision
type PlatformScore struct {
	Platform types.Platform
	Score    int
	Matches  []string // distinct magic strings seen, sorted
	Files    []string // files contributing to the winner, in input order
}

// Platform scores each platform by the number of distinct magic strings per
// file, summed over files. Ties go to the platform declared first; all-zero
// scores yield PlatformUnknown.
func Platform(files []FileContent, tables *signatures.Tables) PlatformScore {
	best := PlatformScore{Platform: types.PlatformUnknown}

	for i := range tables.Platforms {
		sig := &tables.Platforms[i]
		strs := sig.FullMagicStrings()

		score := PlatformScore{Platform: sig.Platform}
		matched := make(map[string]bool)
		for _, f := range files {
			text := string(f.Content)
			hits := 0
			for _, s := range strs {
				if strings.Contains(text, s) {
					hits++
					matched[s] = true
				}
			}
			if hits > 0 {
				score.Score += hits
				score.Files = append(score.Files, f.Path)
			}
		}

		// Strict comparison keeps the earlier platform on ties
		if score.Score > best.Score {
			for s := range matched {
				score.Matches = append(score.Matches, s)
			}
			sort.Strings(score.Matches)
			best = score
		}
	}

	return best
}
