package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	abs, _ := filepath.Abs(root)
	assert.Equal(t, abs, cfg.Project.Root)
	assert.Equal(t, DefaultExclusions(), cfg.Exclude)
	assert.GreaterOrEqual(t, cfg.Scan.Workers, 1)
}

func TestLoad_MergesGlobalExclusions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName),
		[]byte(`exclude "**/global/**"
detection { fallback_framework "cypress"; }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName),
		[]byte(`exclude "**/project/**"`), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Contains(t, cfg.Exclude, "**/global/**")
	assert.Contains(t, cfg.Exclude, "**/project/**")
	assert.Equal(t, "cypress", cfg.Detection.FallbackFramework)
}

func TestLoad_GlobalOnlyKeepsRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(`scan { workers 2; }`), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	abs, _ := filepath.Abs(root)
	assert.Equal(t, abs, cfg.Project.Root)
	assert.Equal(t, 2, cfg.Scan.Workers)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(`scan { workers -4; }`), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestDeduplicatePatterns(t *testing.T) {
	got := DeduplicatePatterns([]string{"a", "b", "a", "", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
