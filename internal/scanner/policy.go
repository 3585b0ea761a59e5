package scanner

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/config"
)

// Policy decides which files the content scanner may read.
// It is a plain value so concurrent scans can use different policies.
type Policy struct {
	Exclude        []string // doublestar globs over root-relative slash paths
	Extensions     []string // lower-case, dot-prefixed
	MaxFileSize    int64    // 0 = unlimited
	FollowSymlinks bool
}

// PolicyFromConfig builds the scan policy from loaded configuration
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Exclude:        append([]string(nil), cfg.Exclude...),
		Extensions:     append([]string(nil), cfg.Scan.Extensions...),
		MaxFileSize:    cfg.Scan.MaxFileSize,
		FollowSymlinks: cfg.Scan.FollowSymlinks,
	}
}

// DefaultPolicy is the built-in exclusion policy and extension set
func DefaultPolicy() Policy {
	return Policy{
		Exclude:     config.DefaultExclusions(),
		Extensions:  config.DefaultExtensions(),
		MaxFileSize: config.DefaultMaxFileSize,
	}
}

// Excluded reports whether rel (root-relative, slash separated) matches an exclusion
func (p Policy) Excluded(rel string) bool {
	for _, pattern := range p.Exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			// A bad pattern shouldn't break scanning
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether a directory and everything below it is excluded,
// so the walk can skip it without visiting its children
func (p Policy) ExcludedDir(rel string) bool {
	return p.Excluded(rel) || p.Excluded(rel+"/_")
}

// HasSourceExtension reports whether rel has one of the policy's source extensions
func (p Policy) HasSourceExtension(rel string) bool {
	ext := strings.ToLower(path.Ext(rel))
	if ext == "" {
		return false
	}
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Accepts reports whether rel is a candidate source file
func (p Policy) Accepts(rel string) bool {
	return p.HasSourceExtension(rel) && !p.Excluded(rel)
}
