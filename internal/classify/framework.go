package classify

import (
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// scoreEpsilon absorbs float error so 0.3+0.3+0.3 ties with 0.9
const scoreEpsilon = 1e-9

// FrameworkScore is one framework's accumulated weight
type FrameworkScore struct {
	Framework  types.Framework
	Score      float64
	Files      []string
	Signatures []string
}

// ScoreFrameworks returns every framework's score in declaration order.
// A matching pattern adds its weight once per file.
func ScoreFrameworks(files []FileContent, tables *signatures.Tables) []FrameworkScore {
	scores := make([]FrameworkScore, 0, len(tables.Frameworks))

	for _, fw := range tables.Frameworks {
		s := FrameworkScore{Framework: fw.Framework}
		seenSig := make(map[string]bool)

		for _, f := range files {
			fileHit := false
			for _, p := range fw.Patterns {
				if !p.Regexp.Match(f.Content) {
					continue
				}
				s.Score += p.Weight
				fileHit = true
				if !seenSig[p.Source] {
					seenSig[p.Source] = true
					s.Signatures = append(s.Signatures, p.Source)
				}
			}
			if fileHit {
				s.Files = append(s.Files, f.Path)
			}
		}
		scores = append(scores, s)
	}

	return scores
}

// Framework picks the highest scoring framework; ties go to declaration
// order and all-zero scores fall back to fallback (the table default when
// fallback is FrameworkUnknown)
func Framework(files []FileContent, tables *signatures.Tables, fallback types.Framework) (types.Framework, types.FrameworkEvidence) {
	if fallback == types.FrameworkUnknown {
		fallback = tables.Fallback
	}

	var best *FrameworkScore
	scores := ScoreFrameworks(files, tables)
	for i := range scores {
		if scores[i].Score <= 0 {
			continue
		}
		if best == nil || scores[i].Score > best.Score+scoreEpsilon {
			best = &scores[i]
		}
	}

	if best == nil {
		return fallback, types.FrameworkEvidence{Files: []string{}, Signatures: []string{}}
	}
	return best.Framework, types.FrameworkEvidence{Files: best.Files, Signatures: best.Signatures}
}
