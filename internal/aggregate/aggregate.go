// Package aggregate runs the transformation engine over the source files of
// a detected project and reduces the per-file results into one Summary.
// Nothing here writes to disk: the summary is a preview.
package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/scanner"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/transform"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/version"
)

// FileResult is the transformation of one file
type FileResult struct {
	Path       string                     `json:"path"`
	Result     types.TransformationResult `json:"result"`
	Changed    bool                       `json:"changed"`
	SourceHash uint64                     `json:"sourceHash"` // xxhash of the bytes read, lets an apply step detect concurrent edits
	ResultHash uint64                     `json:"resultHash"`

	source string
}

// NewFileResult records res as the transformation of source at path
func NewFileResult(path, source string, res types.TransformationResult) FileResult {
	return FileResult{
		Path:       path,
		Result:     res,
		Changed:    res.Content != source,
		SourceHash: xxhash.Sum64String(source),
		ResultHash: xxhash.Sum64String(res.Content),
		source:     source,
	}
}

// Diff renders the change as a unified diff; "" when nothing changed
func (f FileResult) Diff() string {
	if !f.Changed {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(f.source),
		B:        difflib.SplitLines(f.Result.Content),
		FromFile: "a/" + f.Path,
		ToFile:   "b/" + f.Path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// FileWarning is a Warning tagged with the file it came from
type FileWarning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Summary is the project-level outcome of one migration preview
type Summary struct {
	RunID         string          `json:"runId"`
	Build         string          `json:"build"` // version.BuildID of the binary that produced the preview
	Platform      types.Platform  `json:"platform,omitempty"`
	Framework     types.Framework `json:"framework,omitempty"`
	Language      types.Language  `json:"language,omitempty"`
	FilesScanned  int             `json:"filesScanned"`
	FilesTouched  int             `json:"filesTouched"`
	SnapshotCount int             `json:"snapshotCount"`
	Warnings      []FileWarning   `json:"warnings"`
	Files         []FileResult    `json:"files"`
}

// Aggregate reduces per-file results. The reduction is order independent:
// files are sorted by path and warnings follow file order.
func Aggregate(results []FileResult) Summary {
	files := make([]FileResult, len(results))
	copy(files, results)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	s := Summary{
		RunID:    uuid.NewString(),
		Build:    version.BuildID(),
		Warnings: []FileWarning{},
		Files:    files,
	}
	for _, f := range files {
		s.FilesScanned++
		if f.Changed {
			s.FilesTouched++
		}
		s.SnapshotCount += f.Result.SnapshotCount
		for _, w := range f.Result.Warnings {
			s.Warnings = append(s.Warnings, FileWarning{Path: f.Path, Message: w.Message, Details: w.Details})
		}
	}
	return s
}

// Options configures Run
type Options struct {
	Root     string
	Policy   scanner.Policy
	Workers  int            // <= 0 means NumCPU-1
	Language types.Language // overrides the detected language when set
}

// Run transforms every source file of the detection concurrently and
// aggregates the results. Unreadable files become warnings. Cancelling ctx
// abandons the whole run and returns the context error.
func Run(ctx context.Context, engine *transform.Engine, detection *types.DetectionResult, opts Options) (*Summary, error) {
	if detection == nil {
		return nil, fmt.Errorf("aggregate: nil detection result")
	}
	language := detection.Language
	if opts.Language != types.LanguageUnknown {
		language = opts.Language
	}

	sc := scanner.New(opts.Root, opts.Policy, opts.Workers)
	paths := detection.Files.Source
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.Workers())
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := sc.ReadFile(rel)
			if err != nil {
				res := types.Unchanged("")
				res.Warnings = append(res.Warnings, types.Warning{Message: fmt.Sprintf("%s: %v; file skipped", rel, err)})
				results[i] = FileResult{Path: rel, Result: res}
				return nil
			}
			source := string(content)
			results[i] = NewFileResult(rel, source, engine.Transform(transform.Request{
				Platform:  detection.Platform,
				Framework: detection.Framework,
				Language:  language,
				Path:      rel,
				Source:    source,
			}))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := Aggregate(results)
	summary.Platform = detection.Platform
	summary.Framework = detection.Framework
	summary.Language = language
	debug.LogAggregate("run %s: %d files, %d touched, %d snapshots, %d warnings",
		summary.RunID, summary.FilesScanned, summary.FilesTouched, summary.SnapshotCount, len(summary.Warnings))
	return &summary, nil
}
