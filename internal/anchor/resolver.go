package anchor

import (
	"context"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Resolution is everything the detectors reported for one project
type Resolution struct {
	// Candidates holds every anchor in detector order, unmerged
	Candidates []types.AnchorResult
	// Manifests lists the manifests and config files that were checked
	Manifests []string
}

// Platforms returns the distinct candidate platforms in first-seen order
func (r *Resolution) Platforms() []types.Platform {
	var out []types.Platform
	seen := make(map[types.Platform]bool)
	for _, c := range r.Candidates {
		if !seen[c.Platform] {
			seen[c.Platform] = true
			out = append(out, c.Platform)
		}
	}
	return out
}

// Anchor reduces the candidates to a single anchor. More than one distinct
// platform is a MultiplePlatformsDetectedError; none yields an empty anchor.
func (r *Resolution) Anchor() (types.AnchorResult, error) {
	platforms := r.Platforms()
	switch len(platforms) {
	case 0:
		return types.AnchorResult{Platform: types.PlatformUnknown, MagicStrings: []string{}}, nil
	case 1:
		return mergeAnchors(r.Candidates), nil
	default:
		candidates := make([]migerrors.Candidate, 0, len(r.Candidates))
		for _, c := range r.Candidates {
			cand := migerrors.Candidate{Platform: c.Platform}
			if c.Evidence != nil {
				cand.Source = c.Evidence.Source
				cand.Match = c.Evidence.Match
			}
			candidates = append(candidates, cand)
		}
		return types.AnchorResult{}, migerrors.NewMultiplePlatformsDetectedError(candidates)
	}
}

// mergeAnchors folds same-platform anchors: the first keeps its evidence,
// later ones fill missing hints, and magic strings are unioned
func mergeAnchors(anchors []types.AnchorResult) types.AnchorResult {
	merged := anchors[0]
	merged.MagicStrings = append([]string(nil), merged.MagicStrings...)
	for _, a := range anchors[1:] {
		if merged.Framework == types.FrameworkUnknown {
			merged.Framework = a.Framework
		}
		if merged.Language == types.LanguageUnknown {
			merged.Language = a.Language
		}
		merged.MagicStrings = appendUnique(merged.MagicStrings, a.MagicStrings...)
	}
	if merged.MagicStrings == nil {
		merged.MagicStrings = []string{}
	}
	return merged
}

// Resolver runs the anchor detectors over a project root
type Resolver struct {
	root      string
	tables    *signatures.Tables
	detectors []Detector
}

// NewResolver creates a resolver with the default detectors
func NewResolver(root string, tables *signatures.Tables) *Resolver {
	return NewResolverWithDetectors(root, tables, DefaultDetectors()...)
}

// NewResolverWithDetectors creates a resolver with an explicit detector list
func NewResolverWithDetectors(root string, tables *signatures.Tables, detectors ...Detector) *Resolver {
	return &Resolver{root: root, tables: tables, detectors: detectors}
}

// Run executes every detector. A malformed manifest is logged and contributes
// no opinion; only cancellation aborts the run.
func (r *Resolver) Run(ctx context.Context) (*Resolution, error) {
	res := &Resolution{}

	for _, d := range r.detectors {
		finding, err := d.Detect(ctx, r.root, r.tables)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		res.Manifests = appendUnique(res.Manifests, finding.Checked...)
		if err != nil {
			debug.LogDetect("%s detector: %v", d.Name(), err)
		}
		res.Candidates = append(res.Candidates, finding.Anchors...)
	}

	debug.LogDetect("anchors: %d candidates over %v, manifests %v", len(res.Candidates), res.Platforms(), res.Manifests)
	return res, nil
}

// Resolve returns the project's single anchor, an empty anchor when nothing
// is declared, or MultiplePlatformsDetectedError
func (r *Resolver) Resolve(ctx context.Context) (types.AnchorResult, error) {
	res, err := r.Run(ctx)
	if err != nil {
		return types.AnchorResult{}, err
	}
	return res.Anchor()
}

// ResolveAll is the collect-all mode: every platform becomes one merged
// candidate instead of an error
func (r *Resolver) ResolveAll(ctx context.Context) ([]types.AnchorResult, error) {
	res, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}

	var out []types.AnchorResult
	for _, p := range res.Platforms() {
		var same []types.AnchorResult
		for _, c := range res.Candidates {
			if c.Platform == p {
				same = append(same, c)
			}
		}
		out = append(out, mergeAnchors(same))
	}
	return out, nil
}
