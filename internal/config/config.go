package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the project-level configuration file
const ConfigFileName = ".smartui-migrate.kdl"

// DefaultMaxFileSize skips generated bundles and fixtures that are too large to be hand-written tests
const DefaultMaxFileSize = 2 * 1024 * 1024

type Config struct {
	Version   int
	Project   Project
	Scan      Scan
	Detection Detection
	Transform Transform
	Exclude   []string
}

type Project struct {
	Root string
	Name string
}

type Scan struct {
	MaxFileSize    int64    // Files above this size are never read
	Workers        int      // 0 = auto-detect (NumCPU-1)
	Extensions     []string // Source extensions considered by the content scanner
	FollowSymlinks bool
}

type Detection struct {
	CollectAll        bool   // Return every anchor candidate instead of failing on ambiguity
	FallbackFramework string // Framework used when no signature matches; "" keeps the table default
}

type Transform struct {
	Language string // Overrides the detected language when set
}

// Default returns the built-in configuration rooted at root
func Default(root string) *Config {
	if root == "" {
		root, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return &Config{
		Version: 1,
		Project: Project{
			Root: root,
			Name: filepath.Base(root),
		},
		Scan: Scan{
			MaxFileSize: DefaultMaxFileSize,
			Workers:     max(1, runtime.NumCPU()-1),
			Extensions:  DefaultExtensions(),
		},
		Exclude: DefaultExclusions(),
	}
}

// DefaultExtensions lists the source extensions the migrator can analyze
func DefaultExtensions() []string {
	return []string{
		".js", ".jsx", ".mjs", ".cjs",
		".ts", ".tsx", ".mts", ".cts",
		".java",
		".py",
	}
}

// DefaultExclusions is the exclusion policy applied when no exclude block is configured
func DefaultExclusions() []string {
	return []string{
		// Version control metadata
		"**/.git/**",
		"**/.hg/**",
		"**/.svn/**",

		// Dependencies and virtual environments
		"**/node_modules/**",
		"**/bower_components/**",
		"**/vendor/**",
		"**/.venv/**",
		"**/venv/**",
		"**/site-packages/**",

		// Build output
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/coverage/**",
		"**/.next/**",
		"**/.nuxt/**",
		"**/storybook-static/**",
		"**/__pycache__/**",
		"**/*.min.js",
		"**/*.bundle.js",

		// The migrator's own tree when it is vendored into a project
		"**/smartui-migration-tool/**",
		"**/smartui-migrate/**",
		"**/.smartui-backup/**",

		// The migrator's own fixture naming
		"**/__smartui_fixtures__/**",
		"**/*.smartui-fixture.*",
	}
}

// Load reads the project config from rootDir, layered over the global one in
// $HOME, and validates it. With neither file present it returns Default.
func Load(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	// Global base config from ~/.smartui-migrate.kdl (if exists)
	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		baseConfig.Project.Root = absOrSelf(searchDir)
		baseConfig.Project.Name = filepath.Base(baseConfig.Project.Root)
		cfg = baseConfig
	default:
		cfg = Default(searchDir)
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project
	merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))

	if len(project.Scan.Extensions) == 0 && len(base.Scan.Extensions) > 0 {
		merged.Scan.Extensions = base.Scan.Extensions
	}
	if project.Detection.FallbackFramework == "" {
		merged.Detection.FallbackFramework = base.Detection.FallbackFramework
	}
	return &merged
}

// EnrichExclusionsWithBuildArtifacts detects build output directories from language configs
// and adds them to the exclusion list
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}

	detected := NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()
	if len(detected) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
	}
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrence order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
