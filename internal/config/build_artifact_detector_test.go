package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBuildArtifactDetector_JavaScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"scripts": {"build": "tsc --outDir ./compiled"}}`)
	writeFile(t, root, "tsconfig.json", `{"compilerOptions": {"outDir": "lib/"}}`)

	patterns := NewBuildArtifactDetector(root).DetectOutputDirectories()
	assert.ElementsMatch(t, []string{"**/compiled/**", "**/lib/**"}, patterns)
}

func TestBuildArtifactDetector_Python(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `
[tool.hatch.build]
directory = "wheelhouse"
`)

	patterns := NewBuildArtifactDetector(root).DetectOutputDirectories()
	assert.Equal(t, []string{"**/wheelhouse/**"}, patterns)
}

func TestBuildArtifactDetector_Java(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pom.xml", `<project><build><directory>generated</directory></build></project>`)
	writeFile(t, root, "build.gradle", `buildDir = file("gradle-out")`)

	patterns := NewBuildArtifactDetector(root).DetectOutputDirectories()
	assert.ElementsMatch(t, []string{"**/generated/**", "**/gradle-out/**"}, patterns)
}

func TestBuildArtifactDetector_IgnoresUnsafeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.json", `{"compilerOptions": {"outDir": "../outside"}}`)
	writeFile(t, root, "pom.xml", `<project><build><directory>${project.basedir}/target</directory></build></project>`)

	assert.Empty(t, NewBuildArtifactDetector(root).DetectOutputDirectories())
}

func TestEnrichExclusionsWithBuildArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.json", `{"compilerOptions": {"outDir": "dist"}}`)

	cfg := Default(root)
	before := len(cfg.Exclude)
	cfg.EnrichExclusionsWithBuildArtifacts()

	// dist is already a default exclusion and must not be duplicated
	assert.Len(t, cfg.Exclude, before)
}
