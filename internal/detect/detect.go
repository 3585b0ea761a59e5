// Package detect sequences anchor resolution, content scanning and
// classification into a single DetectionResult.
package detect

import (
	"context"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/anchor"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/classify"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/config"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/scanner"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Options configures one detection run
type Options struct {
	Root              string
	Policy            scanner.Policy
	Workers           int
	FallbackFramework types.Framework // FrameworkUnknown keeps the table default
	Language          types.Language  // overrides inference when set
	Tables            *signatures.Tables
}

// OptionsFromConfig builds detection options from validated configuration
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Root:    cfg.Project.Root,
		Policy:  scanner.PolicyFromConfig(cfg),
		Workers: cfg.Scan.Workers,
	}
	// Both values were checked by the config validator
	if fw, err := types.ParseFramework(cfg.Detection.FallbackFramework); err == nil {
		opts.FallbackFramework = fw
	}
	if lang, err := types.ParseLanguage(cfg.Transform.Language); err == nil {
		opts.Language = lang
	}
	return opts
}

func (o Options) tables() *signatures.Tables {
	if o.Tables != nil {
		return o.Tables
	}
	return signatures.Default()
}

// Detect identifies the platform, framework, language and test type of the
// project at opts.Root. It returns one of PlatformNotDetectedError,
// MultiplePlatformsDetectedError or MismatchedSignalsError when no single
// platform can be established.
func Detect(ctx context.Context, opts Options) (*types.DetectionResult, error) {
	tables := opts.tables()

	resolution, err := anchor.NewResolver(opts.Root, tables).Run(ctx)
	if err != nil {
		return nil, err
	}
	anc, err := resolution.Anchor()
	if err != nil {
		return nil, err
	}

	magic := selectMagicStrings(anc, tables)
	debug.LogDetect("anchor %q (framework %q, language %q), searching %d magic strings", anc.Platform, anc.Framework, anc.Language, len(magic))

	report, err := scanner.New(opts.Root, opts.Policy, opts.Workers).Scan(ctx, magic)
	if err != nil {
		return nil, err
	}
	files := toClassifierInput(report.Files)

	if !anc.Found() {
		return nil, mismatchOrNotDetected(opts.Root, resolution.Manifests, report, files, tables)
	}

	result := &types.DetectionResult{
		Platform: anc.Platform,
		Files: types.DetectionFiles{
			Source: report.Paths(),
		},
		Evidence: types.Evidence{
			Platform: platformEvidence(anc),
		},
	}

	result.Framework, result.Evidence.Framework = decideFramework(anc, files, tables, opts.FallbackFramework)
	result.Language = inferLanguage(opts, anc, resolution.Manifests, report.Paths())
	result.TestType = inferTestType(result.Framework, files)

	if err := collectProjectFiles(ctx, opts.Root, tables, result); err != nil {
		return nil, err
	}

	debug.LogDetect("detected %s/%s/%s (%s), %d source files", result.Platform, result.Framework, result.Language, result.TestType, len(result.Files.Source))
	return result, nil
}

// DetectCandidates is the collect-all mode: it reports every anchored
// platform instead of failing on ambiguity
func DetectCandidates(ctx context.Context, opts Options) ([]types.AnchorResult, error) {
	return anchor.NewResolver(opts.Root, opts.tables()).ResolveAll(ctx)
}

// selectMagicStrings narrows the content search using whatever the anchor
// already established
func selectMagicStrings(anc types.AnchorResult, tables *signatures.Tables) []string {
	if !anc.Found() {
		return tables.AllMagicStrings()
	}

	sig, ok := tables.Platform(anc.Platform)
	if !ok {
		return append([]string(nil), anc.MagicStrings...)
	}
	if anc.Complete() {
		return append([]string(nil), sig.MagicStrings...)
	}

	out := append([]string(nil), anc.MagicStrings...)
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[s] = true
	}
	for _, s := range sig.FullMagicStrings() {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func mismatchOrNotDetected(root string, manifests []string, report *scanner.Report, files []classify.FileContent, tables *signatures.Tables) error {
	if len(files) > 0 {
		score := classify.Platform(files, tables)
		if score.Platform != types.PlatformUnknown {
			debug.LogDetect("no anchor, but content implicates %s in %d files", score.Platform, len(score.Files))
			return migerrors.NewMismatchedSignalsError(score.Platform, score.Files, score.Matches)
		}
	}
	return migerrors.NewPlatformNotDetectedError(root, manifests, report.Searched)
}

func decideFramework(anc types.AnchorResult, files []classify.FileContent, tables *signatures.Tables, fallback types.Framework) (types.Framework, types.FrameworkEvidence) {
	if anc.Framework == types.FrameworkUnknown {
		return classify.Framework(files, tables, fallback)
	}

	// The anchor hint wins; the evidence is whatever content supports it
	ev := types.FrameworkEvidence{Files: []string{}, Signatures: []string{}}
	for _, s := range classify.ScoreFrameworks(files, tables) {
		if s.Framework == anc.Framework && s.Score > 0 {
			ev.Files = s.Files
			ev.Signatures = s.Signatures
		}
	}
	return anc.Framework, ev
}

func platformEvidence(anc types.AnchorResult) types.PlatformEvidence {
	if anc.Evidence == nil {
		return types.PlatformEvidence{}
	}
	return types.PlatformEvidence{Source: anc.Evidence.Source, Match: anc.Evidence.Match}
}

func toClassifierInput(files []scanner.File) []classify.FileContent {
	out := make([]classify.FileContent, len(files))
	for i, f := range files {
		out[i] = classify.FileContent{Path: f.Path, Content: f.Content}
	}
	return out
}
