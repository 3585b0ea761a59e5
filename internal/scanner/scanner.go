package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/pkg/pathutil"
)

// File is a source file read by the scanner
type File struct {
	Path    string // root-relative, slash separated
	Content []byte
}

// Report is the outcome of one content search
type Report struct {
	Files    []File // implicated files, sorted by path
	Searched int    // files whose content was actually read and matched
}

// Paths returns the implicated file paths in order
func (r *Report) Paths() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Path
	}
	return out
}

// Scanner walks a project root under a fixed policy. A Scanner holds no
// mutable state, so one value may serve concurrent searches.
type Scanner struct {
	root    string
	policy  Policy
	workers int
}

// New creates a scanner for root. workers <= 0 means NumCPU-1.
func New(root string, policy Policy, workers int) *Scanner {
	if workers <= 0 {
		workers = max(1, runtime.NumCPU()-1)
	}
	// Walked paths are made relative to root, which needs both sides absolute
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Scanner{root: root, policy: policy, workers: workers}
}

// Root returns the directory being scanned
func (s *Scanner) Root() string {
	return s.root
}

// Workers is the parallelism bound of the scanner
func (s *Scanner) Workers() int {
	return s.workers
}

// Candidates lists every source file the policy accepts, sorted by path
func (s *Scanner) Candidates(ctx context.Context) ([]string, error) {
	var out []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == s.root {
				return walkErr
			}
			debug.LogScan("skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := pathutil.ToSlashRelative(path, s.root)

		if d.IsDir() {
			if rel != "." && s.policy.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !s.policy.FollowSymlinks {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if s.policy.Accepts(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, migerrors.NewFileError("walk", s.root, err)
	}

	// WalkDir order puts "a/b.js" before "a.js"; callers expect byte order
	sort.Strings(out)
	return out, nil
}

// Scan reads every candidate file concurrently and keeps the ones containing
// at least one of magicStrings as a raw substring
func (s *Scanner) Scan(ctx context.Context, magicStrings []string) (*Report, error) {
	candidates, err := s.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	needles := make([][]byte, 0, len(magicStrings))
	for _, m := range magicStrings {
		if m != "" {
			needles = append(needles, []byte(m))
		}
	}

	// Each goroutine owns one slot, so no lock is needed
	hits := make([]*File, len(candidates))
	var searched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, rel := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, ok := s.read(rel)
			if !ok {
				return nil
			}
			searched.Add(1)
			if containsAny(content, needles) {
				hits[i] = &File{Path: rel, Content: content}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Searched: int(searched.Load())}
	for _, f := range hits {
		if f != nil {
			report.Files = append(report.Files, *f)
		}
	}

	debug.LogScan("searched %d of %d candidates under %s, %d implicated", report.Searched, len(candidates), s.root, len(report.Files))
	return report, nil
}

// Search returns the sorted root-relative paths of files containing any magic string
func (s *Scanner) Search(ctx context.Context, magicStrings []string) ([]string, error) {
	report, err := s.Scan(ctx, magicStrings)
	if err != nil {
		return nil, err
	}
	return report.Paths(), nil
}

// ReadFile reads one root-relative file under the scanner's size and binary rules
func (s *Scanner) ReadFile(rel string) ([]byte, error) {
	path := pathutil.FromSlashRelative(rel, s.root)
	info, err := os.Stat(path)
	if err != nil {
		return nil, migerrors.NewFileError("stat", rel, err)
	}
	if s.policy.MaxFileSize > 0 && info.Size() > s.policy.MaxFileSize {
		return nil, migerrors.NewFileError("read", rel, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), s.policy.MaxFileSize))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, migerrors.NewFileError("read", rel, err)
	}
	if IsBinary(content) {
		return nil, migerrors.NewFileError("read", rel, fmt.Errorf("binary content"))
	}
	return content, nil
}

func (s *Scanner) read(rel string) ([]byte, bool) {
	content, err := s.ReadFile(rel)
	if err != nil {
		debug.LogScan("%v", err)
		return nil, false
	}
	return content, true
}

func containsAny(content []byte, needles [][]byte) bool {
	for _, n := range needles {
		if bytes.Contains(content, n) {
			return true
		}
	}
	return false
}
