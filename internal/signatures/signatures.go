// Package signatures holds the static detection data: per-platform magic
// strings, manifest dependency tables and config-file globs, plus the
// weighted per-framework pattern signatures. The data lives in embedded
// YAML under tables/ so that new platforms or frameworks are a table edit.
package signatures

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

// Ecosystems understood by the anchor detectors
const (
	EcosystemNPM    = "npm"
	EcosystemMaven  = "maven"
	EcosystemPython = "python"
)

// Dependency is a manifest entry that anchors a platform
type Dependency struct {
	Ecosystem    string
	Name         string
	Framework    types.Framework
	Language     types.Language
	MagicStrings []string
}

// Matches reports whether a manifest dependency name refers to this entry.
// A trailing "*" in the table name matches by prefix.
func (d Dependency) Matches(ecosystem, name string) bool {
	if d.Ecosystem != ecosystem {
		return false
	}
	name = NormalizeDependency(ecosystem, name)
	if prefix, ok := strings.CutSuffix(d.Name, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return name == d.Name
}

// PlatformSignature is everything known about one source platform
type PlatformSignature struct {
	Platform     types.Platform
	Name         string
	MagicStrings []string
	ConfigFiles  []string
	CIMarkers    []string
	Dependencies []Dependency
}

// FullMagicStrings returns the default strings plus every dependency-specific
// string, deduplicated in declaration order
func (p *PlatformSignature) FullMagicStrings() []string {
	out := append([]string(nil), p.MagicStrings...)
	for _, dep := range p.Dependencies {
		out = append(out, dep.MagicStrings...)
	}
	return dedupe(out)
}

// Pattern is one weighted framework signature
type Pattern struct {
	Source string
	Regexp *regexp.Regexp
	Weight float64
}

// FrameworkSignature lists the patterns that vote for one framework
type FrameworkSignature struct {
	Framework types.Framework
	Patterns  []Pattern
}

// Tables is the loaded, validated signature data
type Tables struct {
	Platforms  []PlatformSignature
	Frameworks []FrameworkSignature
	Fallback   types.Framework
}

// Platform returns the signature for p
func (t *Tables) Platform(p types.Platform) (*PlatformSignature, bool) {
	for i := range t.Platforms {
		if t.Platforms[i].Platform == p {
			return &t.Platforms[i], true
		}
	}
	return nil, false
}

// AllMagicStrings is the cold-search set: the union of every platform's full table
func (t *Tables) AllMagicStrings() []string {
	var out []string
	for i := range t.Platforms {
		out = append(out, t.Platforms[i].FullMagicStrings()...)
	}
	return dedupe(out)
}

// MatchDependency finds the platform dependency entry for a manifest name
func (t *Tables) MatchDependency(ecosystem, name string) (types.Platform, *Dependency, bool) {
	for i := range t.Platforms {
		p := &t.Platforms[i]
		for j := range p.Dependencies {
			if p.Dependencies[j].Matches(ecosystem, name) {
				return p.Platform, &p.Dependencies[j], true
			}
		}
	}
	return types.PlatformUnknown, nil, false
}

// NormalizeDependency canonicalizes a manifest name for comparison.
// Python names are case-insensitive and treat "_" and "." like "-".
func NormalizeDependency(ecosystem, name string) string {
	name = strings.TrimSpace(name)
	if ecosystem == EcosystemPython {
		name = strings.ToLower(name)
		name = strings.NewReplacer("_", "-", ".", "-").Replace(name)
	}
	return name
}

type rawDependency struct {
	Ecosystem    string   `yaml:"ecosystem"`
	Name         string   `yaml:"name"`
	Framework    string   `yaml:"framework"`
	Language     string   `yaml:"language"`
	MagicStrings []string `yaml:"magic_strings"`
}

type rawPlatform struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	MagicStrings []string        `yaml:"magic_strings"`
	ConfigFiles  []string        `yaml:"config_files"`
	CIMarkers    []string        `yaml:"ci_markers"`
	Dependencies []rawDependency `yaml:"dependencies"`
}

type rawPattern struct {
	Pattern string  `yaml:"pattern"`
	Weight  float64 `yaml:"weight"`
}

type rawFramework struct {
	ID         string       `yaml:"id"`
	Signatures []rawPattern `yaml:"signatures"`
}

var (
	defaultTables *Tables
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the embedded tables, loaded once
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load()
	})
	if defaultErr != nil {
		// The YAML is embedded at compile time; a failure here is a build defect
		panic(fmt.Sprintf("signatures: %v", defaultErr))
	}
	return defaultTables
}

// Load reads and validates tables/platforms.yaml and tables/frameworks.yaml
func Load() (*Tables, error) {
	platformData, err := tablesFS.ReadFile("tables/platforms.yaml")
	if err != nil {
		return nil, fmt.Errorf("load platform table: %w", err)
	}
	frameworkData, err := tablesFS.ReadFile("tables/frameworks.yaml")
	if err != nil {
		return nil, fmt.Errorf("load framework table: %w", err)
	}
	return Parse(platformData, frameworkData)
}

// Parse builds Tables from raw YAML documents. Lists keep their declaration
// order because the classifiers use it to break ties.
func Parse(platformData, frameworkData []byte) (*Tables, error) {
	var rawP struct {
		Platforms []rawPlatform `yaml:"platforms"`
	}
	if err := yaml.Unmarshal(platformData, &rawP); err != nil {
		return nil, fmt.Errorf("parse platforms.yaml: %w", err)
	}

	var rawF struct {
		Fallback   string         `yaml:"fallback"`
		Frameworks []rawFramework `yaml:"frameworks"`
	}
	if err := yaml.Unmarshal(frameworkData, &rawF); err != nil {
		return nil, fmt.Errorf("parse frameworks.yaml: %w", err)
	}

	t := &Tables{}
	known := make(map[types.Framework]bool)

	for _, rf := range rawF.Frameworks {
		fw, err := types.ParseFramework(rf.ID)
		if err != nil {
			return nil, fmt.Errorf("frameworks.yaml: %w", err)
		}
		if len(rf.Signatures) == 0 {
			return nil, fmt.Errorf("frameworks.yaml: framework %q has no signatures", rf.ID)
		}
		sig := FrameworkSignature{Framework: fw}
		for _, rs := range rf.Signatures {
			re, err := regexp.Compile(rs.Pattern)
			if err != nil {
				return nil, fmt.Errorf("frameworks.yaml %s: bad pattern %q: %w", rf.ID, rs.Pattern, err)
			}
			if rs.Weight <= 0 {
				return nil, fmt.Errorf("frameworks.yaml %s: pattern %q needs a positive weight", rf.ID, rs.Pattern)
			}
			sig.Patterns = append(sig.Patterns, Pattern{Source: rs.Pattern, Regexp: re, Weight: rs.Weight})
		}
		known[fw] = true
		t.Frameworks = append(t.Frameworks, sig)
	}

	fallback, err := types.ParseFramework(rawF.Fallback)
	if err != nil || !known[fallback] {
		return nil, fmt.Errorf("frameworks.yaml: fallback %q is not a declared framework", rawF.Fallback)
	}
	t.Fallback = fallback

	for _, rp := range rawP.Platforms {
		platform, err := types.ParsePlatform(rp.ID)
		if err != nil {
			return nil, fmt.Errorf("platforms.yaml: %w", err)
		}
		if len(rp.MagicStrings) == 0 {
			return nil, fmt.Errorf("platforms.yaml: platform %q has no magic strings", rp.ID)
		}
		ps := PlatformSignature{
			Platform:     platform,
			Name:         rp.Name,
			MagicStrings: rp.MagicStrings,
			ConfigFiles:  rp.ConfigFiles,
			CIMarkers:    rp.CIMarkers,
		}
		for _, rd := range rp.Dependencies {
			dep, err := resolveDependency(rd, known)
			if err != nil {
				return nil, fmt.Errorf("platforms.yaml %s: %w", rp.ID, err)
			}
			ps.Dependencies = append(ps.Dependencies, dep)
		}
		t.Platforms = append(t.Platforms, ps)
	}

	return t, nil
}

func resolveDependency(rd rawDependency, known map[types.Framework]bool) (Dependency, error) {
	switch rd.Ecosystem {
	case EcosystemNPM, EcosystemMaven, EcosystemPython:
	default:
		return Dependency{}, fmt.Errorf("dependency %q: unknown ecosystem %q", rd.Name, rd.Ecosystem)
	}

	dep := Dependency{
		Ecosystem:    rd.Ecosystem,
		Name:         NormalizeDependency(rd.Ecosystem, rd.Name),
		MagicStrings: rd.MagicStrings,
	}
	if rd.Framework != "" {
		fw, err := types.ParseFramework(rd.Framework)
		if err != nil {
			return Dependency{}, fmt.Errorf("dependency %q: %w", rd.Name, err)
		}
		if !known[fw] {
			return Dependency{}, fmt.Errorf("dependency %q: framework %q has no signatures", rd.Name, fw)
		}
		dep.Framework = fw
	}
	if rd.Language != "" {
		lang, err := types.ParseLanguage(rd.Language)
		if err != nil {
			return Dependency{}, fmt.Errorf("dependency %q: %w", rd.Name, err)
		}
		dep.Language = lang
	}
	return dep, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
