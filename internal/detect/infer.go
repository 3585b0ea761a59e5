package detect

import (
	"path"
	"regexp"
	"strings"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/anchor"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/classify"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// languageOrder breaks extension-count ties
var languageOrder = []types.Language{
	types.LanguageTypeScript,
	types.LanguageJavaScript,
	types.LanguageJava,
	types.LanguagePython,
}

// LanguageForPath maps a source extension to its language
func LanguageForPath(p string) types.Language {
	switch strings.ToLower(path.Ext(p)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return types.LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return types.LanguageJavaScript
	case ".java":
		return types.LanguageJava
	case ".py":
		return types.LanguagePython
	default:
		return types.LanguageUnknown
	}
}

func inferLanguage(opts Options, anc types.AnchorResult, manifests, sources []string) types.Language {
	if opts.Language != types.LanguageUnknown {
		return opts.Language
	}
	if anc.Language != types.LanguageUnknown {
		return anc.Language
	}
	if lang := dominantLanguage(sources); lang != types.LanguageUnknown {
		return lang
	}
	return languageFromManifests(opts.Root, manifests)
}

// dominantLanguage counts source extensions; ties follow languageOrder
func dominantLanguage(paths []string) types.Language {
	counts := make(map[types.Language]int)
	for _, p := range paths {
		if lang := LanguageForPath(p); lang != types.LanguageUnknown {
			counts[lang]++
		}
	}

	best, bestCount := types.LanguageUnknown, 0
	for _, lang := range languageOrder {
		if counts[lang] > bestCount {
			best, bestCount = lang, counts[lang]
		}
	}
	return best
}

// languageFromManifests is the last resort when no source file was implicated
func languageFromManifests(root string, manifests []string) types.Language {
	for _, m := range manifests {
		switch {
		case m == anchor.ManifestPackageJSON:
			pkg, _, _ := anchor.ReadPackageJSON(root)
			return anchor.NPMLanguage(root, pkg)
		case m == anchor.ManifestPomXML || strings.HasPrefix(m, anchor.ManifestBuildGradle):
			return types.LanguageJava
		case m == anchor.ManifestPyprojectToml || m == anchor.ManifestPipfile || strings.HasPrefix(m, "requirements"):
			return types.LanguagePython
		}
	}
	return types.LanguageJavaScript
}

// componentMount matches the framework-specific Cypress mount packages
var componentMount = regexp.MustCompile(`['"]@?cypress/(react|react18|vue|vue2|angular|svelte)['"]`)

func inferTestType(fw types.Framework, files []classify.FileContent) types.TestType {
	if fw == types.FrameworkStorybook {
		return types.TestTypeStorybook
	}
	for _, f := range files {
		if strings.HasPrefix(f.Path, "cypress/component/") || strings.Contains(f.Path, "/cypress/component/") {
			return types.TestTypeComponent
		}
		if componentMount.Match(f.Content) {
			return types.TestTypeComponent
		}
	}
	return types.TestTypeE2E
}
