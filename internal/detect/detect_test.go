package detect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/classify"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/config"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/scanner"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func options(root string) Options {
	return Options{Root: root, Policy: scanner.DefaultPolicy(), Workers: 2}
}

func assertEvidenceSubset(t *testing.T, result *types.DetectionResult) {
	t.Helper()
	for _, f := range result.Evidence.Framework.Files {
		assert.Contains(t, result.Files.Source, f, "framework evidence file must be a detected source file")
	}
}

func TestDetect_AnchoredCypressProject(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json": `{"devDependencies": {"cypress": "^13.6.0", "@percy/cypress": "^3.1.2"}}`,
		"cypress/e2e/home.cy.js": `describe('home', () => {
  it('renders', () => {
    cy.visit('/');
    cy.percySnapshot('Home page', { percyCSS: '.ads { display: none; }', minHeight: 1024 });
  });
});
`,
		"cypress/e2e/plain.cy.js":      "describe('x', () => { it('y', () => cy.visit('/')) })",
		".github/workflows/visual.yml": "env:\n  PERCY_TOKEN: ${{ secrets.PERCY_TOKEN }}\n",
		".github/workflows/lint.yml":   "jobs: {}\n",
		".percy.yml":                   "version: 2\n",
		"package-lock.json":            "{}",
	})

	result, err := Detect(context.Background(), options(root))
	require.NoError(t, err)

	assert.Equal(t, types.PlatformPercy, result.Platform)
	assert.Equal(t, types.FrameworkCypress, result.Framework)
	assert.Equal(t, types.LanguageJavaScript, result.Language)
	assert.Equal(t, types.TestTypeE2E, result.TestType)

	assert.Equal(t, []string{"cypress/e2e/home.cy.js"}, result.Files.Source)
	assert.Equal(t, []string{".percy.yml"}, result.Files.Config)
	assert.Equal(t, []string{".github/workflows/visual.yml"}, result.Files.CI)
	assert.Equal(t, []string{"package-lock.json", "package.json"}, result.Files.PackageManager)

	assert.Equal(t, "package.json", result.Evidence.Platform.Source)
	assert.Equal(t, "@percy/cypress", result.Evidence.Platform.Match)
	assert.Equal(t, []string{"cypress/e2e/home.cy.js"}, result.Evidence.Framework.Files)
	assertEvidenceSubset(t, result)
}

func TestDetect_TwoPlatformsInOneManifest(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json": `{"devDependencies": {"@percy/cypress": "1", "@applitools/eyes-cypress": "3"}}`,
	})

	_, err := Detect(context.Background(), options(root))
	var multi *migerrors.MultiplePlatformsDetectedError
	require.ErrorAs(t, err, &multi)
	assert.True(t, migerrors.IsDetectionError(err))

	candidates, err := DetectCandidates(context.Background(), options(root))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestDetect_ContentWithoutManifestIsMismatch(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json":        `{"devDependencies": {"cypress": "^13.0.0"}}`,
		"cypress/e2e/a.cy.js": "cy.visit('/'); cy.eyesOpen({ appName: 'web' }); cy.eyesCheckWindow('home'); cy.eyesClose();",
		"cypress/e2e/b.cy.js": "cy.visit('/b');",
	})

	_, err := Detect(context.Background(), options(root))
	var mismatch *migerrors.MismatchedSignalsError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, types.PlatformApplitools, mismatch.Platform)
	assert.Equal(t, []string{"cypress/e2e/a.cy.js"}, mismatch.Files)
	assert.Contains(t, mismatch.Matches, "cy.eyesCheckWindow")
	assert.Contains(t, err.Error(), "Applitools")
}

func TestDetect_NothingDeclaredOrFound(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json":      `{"devDependencies": {"jest": "^29.0.0"}}`,
		"src/sum.test.js":   "test('adds', () => expect(1 + 1).toBe(2))",
		"src/other.spec.ts": "describe('x', () => {})",
	})

	_, err := Detect(context.Background(), options(root))
	var notDetected *migerrors.PlatformNotDetectedError
	require.ErrorAs(t, err, &notDetected)
	assert.Equal(t, []string{"package.json"}, notDetected.Manifests)
	assert.Equal(t, 2, notDetected.SearchedFiles)
	assert.Equal(t, root, notDetected.Root)
}

func TestDetect_EmptyProject(t *testing.T) {
	_, err := Detect(context.Background(), options(t.TempDir()))
	var notDetected *migerrors.PlatformNotDetectedError
	require.ErrorAs(t, err, &notDetected)
	assert.Empty(t, notDetected.Manifests)
	assert.Zero(t, notDetected.SearchedFiles)
}

func TestDetect_PlatformOnlyAnchorClassifiesFramework(t *testing.T) {
	root := writeProject(t, map[string]string{
		"applitools.config.js": "module.exports = { appName: 'web' }",
		"tests/home.spec.ts": `import { test } from '@playwright/test';
import { Eyes, Target } from '@applitools/eyes-playwright';
test('home', async ({ page }) => {
  await page.goto('/');
  await eyes.check('home', Target.window().fully());
});
`,
		"tests/util.ts": "export const x = 1;",
	})

	result, err := Detect(context.Background(), options(root))
	require.NoError(t, err)
	assert.Equal(t, types.PlatformApplitools, result.Platform)
	assert.Equal(t, types.FrameworkPlaywright, result.Framework)
	assert.Equal(t, types.LanguageTypeScript, result.Language)
	assert.Equal(t, []string{"applitools.config.js"}, result.Files.Config)
	assert.Equal(t, []string{"tests/home.spec.ts"}, result.Evidence.Framework.Files)
	assertEvidenceSubset(t, result)
}

func TestDetect_JavaMaven(t *testing.T) {
	root := writeProject(t, map[string]string{
		"pom.xml": `<project><dependencies><dependency><groupId>io.percy</groupId><artifactId>percy-java-selenium</artifactId></dependency></dependencies></project>`,
		"src/test/java/HomeTest.java": `import io.percy.selenium.Percy;
import org.openqa.selenium.WebDriver;
class HomeTest { void run(WebDriver driver) { Percy percy = new Percy(driver); percy.snapshot("home"); } }
`,
		"Jenkinsfile": "environment { PERCY_TOKEN = credentials('percy') }",
	})

	result, err := Detect(context.Background(), options(root))
	require.NoError(t, err)
	assert.Equal(t, types.FrameworkSelenium, result.Framework)
	assert.Equal(t, types.LanguageJava, result.Language)
	assert.Equal(t, []string{"src/test/java/HomeTest.java"}, result.Files.Source)
	assert.Equal(t, []string{"Jenkinsfile"}, result.Files.CI)
	assert.Equal(t, []string{"pom.xml"}, result.Files.PackageManager)
}

func TestDetect_MavenLanguageWinsOverNPMCLI(t *testing.T) {
	root := writeProject(t, map[string]string{
		"pom.xml":      `<project><dependencies><dependency><groupId>io.percy</groupId><artifactId>percy-java-selenium</artifactId></dependency></dependencies></project>`,
		"package.json": `{"devDependencies": {"@percy/cli": "^1.28.0"}}`,
		"src/T.java": `import io.percy.selenium.Percy;
class T { void run() { Percy percy = new Percy(driver); percy.snapshot("home"); } }
`,
	})

	result, err := Detect(context.Background(), options(root))
	require.NoError(t, err)
	assert.Equal(t, types.PlatformPercy, result.Platform)
	assert.Equal(t, types.FrameworkSelenium, result.Framework)
	assert.Equal(t, types.LanguageJava, result.Language)
	assert.Equal(t, []string{"src/T.java"}, result.Files.Source)
}

func TestDetect_FallbackFrameworkFromOptions(t *testing.T) {
	root := writeProject(t, map[string]string{
		".percy.yml": "version: 2",
		"visual.py":  "from percy import percy_snapshot\npercy_snapshot(browser, 'home')\n",
	})

	opts := options(root)
	result, err := Detect(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.FrameworkSelenium, result.Framework)
	assert.Equal(t, types.LanguagePython, result.Language)

	opts.FallbackFramework = types.FrameworkPlaywright
	opts.Language = types.LanguageJavaScript
	result, err = Detect(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.FrameworkPlaywright, result.Framework)
	assert.Equal(t, types.LanguageJavaScript, result.Language)
}

func TestDetect_ComponentAndStorybookTestTypes(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json":                    `{"devDependencies": {"@percy/cypress": "1"}}`,
		"cypress/component/Button.cy.jsx": "import { mount } from 'cypress/react18';\ncy.mount(<Button />); cy.percySnapshot('button');",
	})
	result, err := Detect(context.Background(), options(root))
	require.NoError(t, err)
	assert.Equal(t, types.TestTypeComponent, result.TestType)

	root = writeProject(t, map[string]string{
		"package.json":           `{"devDependencies": {"@percy/storybook": "1", "typescript": "5"}}`,
		"src/Button.stories.tsx": "import type { Meta } from '@storybook/react';\nexport default { title: 'Button' };\n// @percy/storybook snapshots every story",
	})
	result, err = Detect(context.Background(), options(root))
	require.NoError(t, err)
	assert.Equal(t, types.FrameworkStorybook, result.Framework)
	assert.Equal(t, types.LanguageTypeScript, result.Language)
	assert.Equal(t, types.TestTypeStorybook, result.TestType)
}

func TestDetect_Cancelled(t *testing.T) {
	root := writeProject(t, map[string]string{"package.json": `{}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Detect(ctx, options(root))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectMagicStrings(t *testing.T) {
	tables := signatures.Default()
	percy, _ := tables.Platform(types.PlatformPercy)

	complete := types.AnchorResult{
		Platform:     types.PlatformPercy,
		Framework:    types.FrameworkCypress,
		Language:     types.LanguageJavaScript,
		MagicStrings: []string{"cy.percySnapshot"},
	}
	assert.Equal(t, percy.MagicStrings, selectMagicStrings(complete, tables))

	partial := types.AnchorResult{Platform: types.PlatformPercy, MagicStrings: []string{"custom"}}
	got := selectMagicStrings(partial, tables)
	assert.Equal(t, "custom", got[0])
	assert.Subset(t, got, percy.FullMagicStrings())

	cold := selectMagicStrings(types.AnchorResult{}, tables)
	assert.Equal(t, tables.AllMagicStrings(), cold)
}

func TestDominantLanguage(t *testing.T) {
	assert.Equal(t, types.LanguageJava, dominantLanguage([]string{"A.java", "B.java", "c.py"}))
	assert.Equal(t, types.LanguageTypeScript, dominantLanguage([]string{"a.ts", "b.js"}))
	assert.Equal(t, types.LanguageJavaScript, dominantLanguage([]string{"b.js", "c.py"}))
	assert.Equal(t, types.LanguageUnknown, dominantLanguage(nil))
}

func TestInferTestType(t *testing.T) {
	e2e := []classify.FileContent{{Path: "cypress/e2e/a.cy.js", Content: []byte("cy.visit('/')")}}
	assert.Equal(t, types.TestTypeE2E, inferTestType(types.FrameworkCypress, e2e))

	mount := []classify.FileContent{{Path: "src/a.cy.jsx", Content: []byte(`import { mount } from "@cypress/react"`)}}
	assert.Equal(t, types.TestTypeComponent, inferTestType(types.FrameworkCypress, mount))

	nested := []classify.FileContent{{Path: "web/cypress/component/a.cy.js"}}
	assert.Equal(t, types.TestTypeComponent, inferTestType(types.FrameworkCypress, nested))

	assert.Equal(t, types.TestTypeStorybook, inferTestType(types.FrameworkStorybook, nil))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Detection.FallbackFramework = "wdio"
	cfg.Transform.Language = "python"
	cfg.Scan.Workers = 3

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, cfg.Project.Root, opts.Root)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, types.FrameworkWebdriverIO, opts.FallbackFramework)
	assert.Equal(t, types.LanguagePython, opts.Language)
	assert.Equal(t, cfg.Exclude, opts.Policy.Exclude)

	opts = OptionsFromConfig(config.Default(t.TempDir()))
	assert.Equal(t, types.FrameworkUnknown, opts.FallbackFramework)
	assert.Equal(t, types.LanguageUnknown, opts.Language)
}

func TestFindCIFiles(t *testing.T) {
	root := writeProject(t, map[string]string{
		".gitlab-ci.yml":             "variables:\n  APPLITOOLS_API_KEY: $KEY\n",
		".circleci/config.yml":       "jobs: {}",
		".github/workflows/e2e.yaml": "APPLITOOLS_BATCH_ID: 1",
	})

	files, err := FindCIFiles(root, []string{"APPLITOOLS_API_KEY", "APPLITOOLS_BATCH_ID"})
	require.NoError(t, err)
	assert.Equal(t, []string{".github/workflows/e2e.yaml", ".gitlab-ci.yml"}, files)

	files, err = FindCIFiles(root, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
