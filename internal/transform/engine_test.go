package transform

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

func run(t *testing.T, p types.Platform, fw types.Framework, path, src string) types.TransformationResult {
	t.Helper()
	res := New(nil).Transform(Request{Platform: p, Framework: fw, Path: path, Source: src})
	require.NotNil(t, res.Warnings, "warnings must never be nil")
	return res
}

func messages(res types.TransformationResult) []string {
	out := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		out[i] = w.Message
	}
	return out
}

func assertWarning(t *testing.T, res types.TransformationResult, substr string) {
	t.Helper()
	for _, w := range res.Warnings {
		if strings.Contains(w.Message, substr) {
			return
		}
	}
	t.Errorf("no warning contains %q; got %q", substr, messages(res))
}

func TestTransform_UnknownExtensionIsUnchanged(t *testing.T) {
	src := "# Visual tests\ncy.percySnapshot('x')\n"
	res := run(t, types.PlatformPercy, types.FrameworkCypress, "README.md", src)
	assert.Equal(t, src, res.Content)
	assert.Empty(t, res.Warnings)
	assert.Zero(t, res.SnapshotCount)
}

func TestTransform_UnsupportedPairIsNoOp(t *testing.T) {
	src := "from saucelabs_visual.client import SauceLabsVisual\n\nvisual = SauceLabsVisual()\nvisual.sauce_visual_check('Home')\n"
	res := run(t, types.PlatformSauceLabs, types.FrameworkSelenium, "tests/test_home.py", src)
	assert.Equal(t, src, res.Content)
	assert.Empty(t, res.Warnings)
	assert.Zero(t, res.SnapshotCount)
}

func TestTransform_SyntaxErrorLeavesFileUnchanged(t *testing.T) {
	src := "cy.percySnapshot('Home', {\n"
	res := run(t, types.PlatformPercy, types.FrameworkCypress, "cypress/e2e/broken.cy.js", src)
	assert.Equal(t, src, res.Content)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "cypress/e2e/broken.cy.js:")
	assert.Contains(t, res.Warnings[0].Message, "syntax error; file left unchanged")
	assert.Zero(t, res.SnapshotCount)
}

func TestTransform_UnknownPlatformIsUnchanged(t *testing.T) {
	src := "const x = 1;\n"
	res := run(t, types.PlatformUnknown, types.FrameworkCypress, "a.js", src)
	assert.Equal(t, src, res.Content)
	assert.Empty(t, res.Warnings)
}

func TestTransform_NoPlatformCodeIsByteIdentical(t *testing.T) {
	srcs := map[string]string{
		"a.js":   "// nothing to see\nconst x = require('lodash');\n",
		"A.java": "class A {\n    void run() { System.out.println(\"x\"); }\n}\n",
		"a.py":   "import os\n\nprint(os.getcwd())\n",
	}
	for path, src := range srcs {
		res := run(t, types.PlatformApplitools, types.FrameworkSelenium, path, src)
		assert.Equal(t, src, res.Content, path)
		assert.Empty(t, res.Warnings, path)
	}
}

func TestTransform_ExtensionWinsOverRequestedLanguage(t *testing.T) {
	src := "describe('x', () => {\n  it('y', () => {\n    cy.percySnapshot('Home');\n  });\n});\n"
	res := New(nil).Transform(Request{
		Platform:  types.PlatformPercy,
		Framework: types.FrameworkCypress,
		Language:  types.LanguagePython,
		Path:      "home.cy.js",
		Source:    src,
	})
	assert.Contains(t, res.Content, "cy.smartuiSnapshot('Home')")
	assert.Equal(t, 1, res.SnapshotCount)
}

func TestTransform_Concurrent(t *testing.T) {
	engine := New(nil)
	src := "cy.percySnapshot('Home', { percyCSS: 'a { }' });\n"
	want := "cy.smartuiSnapshot('Home', { customCSS: 'a { }' });\n"

	var wg sync.WaitGroup
	results := make([]types.TransformationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Transform(Request{
				Platform:  types.PlatformPercy,
				Framework: types.FrameworkCypress,
				Path:      fmt.Sprintf("spec%d.cy.js", i),
				Source:    src,
			})
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, want, res.Content)
		assert.Equal(t, 1, res.SnapshotCount)
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(types.PlatformPercy, types.LanguagePython))
	assert.True(t, Supported(types.PlatformApplitools, types.LanguageJava))
	assert.True(t, Supported(types.PlatformSauceLabs, types.LanguageTypeScript))
	assert.False(t, Supported(types.PlatformSauceLabs, types.LanguagePython))
	assert.False(t, Supported(types.PlatformPercy, types.LanguageUnknown))
	assert.False(t, Supported(types.PlatformSmartUI, types.LanguageJavaScript))
}

func TestGrammarFor(t *testing.T) {
	assert.Equal(t, grammarTSX, grammarFor("src/App.test.TSX"))
	assert.Equal(t, grammarJavaScript, grammarFor("cypress.config.cjs"))
	assert.Equal(t, grammarJava, grammarFor("src/test/java/HomeTest.java"))
	assert.Equal(t, grammarPython, grammarFor("tests/test_home.py"))
	assert.Equal(t, grammarNone, grammarFor("pom.xml"))
}
