package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("", t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Scan.MaxFileSize)
	assert.Equal(t, DefaultExtensions(), cfg.Scan.Extensions)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.False(t, cfg.Detection.CollectAll)
}

func TestParseKDL_Sections(t *testing.T) {
	kdlContent := `
project {
    root "web"
    name "storefront"
}
scan {
    max_file_size "512KB"
    workers 3
    extensions "js" ".TS"
    follow_symlinks true
}
detection {
    collect_all true
    fallback_framework "playwright"
}
transform {
    language "typescript"
}
`
	cfg, err := parseKDL(kdlContent, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Project.Root)
	assert.Equal(t, "storefront", cfg.Project.Name)
	assert.Equal(t, int64(512*1024), cfg.Scan.MaxFileSize)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, []string{".js", ".ts"}, cfg.Scan.Extensions)
	assert.True(t, cfg.Scan.FollowSymlinks)
	assert.True(t, cfg.Detection.CollectAll)
	assert.Equal(t, "playwright", cfg.Detection.FallbackFramework)
	assert.Equal(t, "typescript", cfg.Transform.Language)
}

func TestParseKDL_ExcludeReplacesDefaults(t *testing.T) {
	cfg, err := parseKDL(`exclude "**/fixtures/**" "**/legacy/**"`, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"**/fixtures/**", "**/legacy/**"}, cfg.Exclude)
}

func TestParseKDL_ExcludeExtraAppends(t *testing.T) {
	cfg, err := parseKDL(`exclude_extra "**/legacy/**"`, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "**/legacy/**")
}

func TestParseKDL_Invalid(t *testing.T) {
	_, err := parseKDL(`scan {`, t.TempDir())
	assert.Error(t, err)
}

func TestLoadKDL_Missing(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ResolvesRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`project { root "app"; }`), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, filepath.Join(abs, "app"), cfg.Project.Root)
	assert.Equal(t, "app", cfg.Project.Name)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10", 10},
		{"10B", 10},
		{"2KB", 2048},
		{"2MB", 2 * 1024 * 1024},
		{"1gb", 1024 * 1024 * 1024},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}
