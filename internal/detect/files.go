package detect

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/anchor"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
	"github.com/RushilK7/smartui-migration-tool-sub004/pkg/pathutil"
)

// ciPatterns are the CI definitions checked for platform markers
var ciPatterns = []string{
	".github/workflows/*.{yml,yaml}",
	".gitlab-ci.yml",
	"Jenkinsfile",
	".circleci/config.yml",
	"azure-pipelines.yml",
	"bitbucket-pipelines.yml",
	".travis.yml",
}

// packageManagerPatterns are root-level manifests and lockfiles
var packageManagerPatterns = []string{
	"package.json",
	"package-lock.json",
	"npm-shrinkwrap.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"settings.gradle",
	"settings.gradle.kts",
	"gradle.lockfile",
	"requirements*.txt",
	"pyproject.toml",
	"poetry.lock",
	"uv.lock",
	"pdm.lock",
	"Pipfile",
	"Pipfile.lock",
	"setup.py",
	"setup.cfg",
}

// collectProjectFiles fills the config, CI and package-manager file lists
func collectProjectFiles(ctx context.Context, root string, tables *signatures.Tables, result *types.DetectionResult) error {
	result.Files.Config = []string{}
	result.Files.CI = []string{}

	sig, ok := tables.Platform(result.Platform)
	if ok {
		cfgFiles, err := anchor.FindConfigFiles(root, sig)
		if err != nil {
			return err
		}
		result.Files.Config = append(result.Files.Config, cfgFiles...)

		if err := ctx.Err(); err != nil {
			return err
		}
		ci, err := FindCIFiles(root, sig.CIMarkers)
		if err != nil {
			return err
		}
		result.Files.CI = append(result.Files.CI, ci...)
	}

	pm, err := globAll(root, packageManagerPatterns)
	if err != nil {
		return err
	}
	result.Files.PackageManager = pm
	return nil
}

// FindCIFiles returns the CI definitions that mention any of markers
func FindCIFiles(root string, markers []string) ([]string, error) {
	if len(markers) == 0 {
		return []string{}, nil
	}

	candidates, err := globAll(root, ciPatterns)
	if err != nil {
		return nil, err
	}

	out := []string{}
	for _, rel := range candidates {
		data, err := os.ReadFile(pathutil.FromSlashRelative(rel, root))
		if err != nil {
			debug.LogDetect("ci: skipping %s: %v", rel, err)
			continue
		}
		text := string(data)
		for _, m := range markers {
			if strings.Contains(text, m) {
				out = append(out, rel)
				break
			}
		}
	}
	return out, nil
}

func globAll(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	out := []string{}
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
