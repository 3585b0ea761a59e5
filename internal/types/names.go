package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Platform identifies a visual-regression testing platform
type Platform string

const (
	PlatformUnknown    Platform = ""
	PlatformPercy      Platform = "percy"
	PlatformApplitools Platform = "applitools"
	PlatformSauceLabs  Platform = "sauce-labs"

	// PlatformSmartUI is the migration target
	PlatformSmartUI Platform = "smartui"
)

// DisplayName returns the human-readable platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformPercy:
		return "Percy"
	case PlatformApplitools:
		return "Applitools"
	case PlatformSauceLabs:
		return "Sauce Labs Visual"
	case PlatformSmartUI:
		return "SmartUI"
	default:
		return "unknown"
	}
}

// Framework identifies a browser test framework
type Framework string

const (
	FrameworkUnknown     Framework = ""
	FrameworkCypress     Framework = "cypress"
	FrameworkPlaywright  Framework = "playwright"
	FrameworkPuppeteer   Framework = "puppeteer"
	FrameworkWebdriverIO Framework = "webdriverio"
	FrameworkStorybook   Framework = "storybook"
	FrameworkSelenium    Framework = "selenium"
)

// Language identifies a source language family
type Language string

const (
	LanguageUnknown    Language = ""
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageJava       Language = "java"
	LanguagePython     Language = "python"
)

// TestType classifies the kind of visual tests in a project
type TestType string

const (
	TestTypeE2E       TestType = "e2e"
	TestTypeComponent TestType = "component"
	TestTypeStorybook TestType = "storybook"
)

var platformAliases = map[string]Platform{
	"percy":             PlatformPercy,
	"applitools":        PlatformApplitools,
	"eyes":              PlatformApplitools,
	"sauce-labs":        PlatformSauceLabs,
	"saucelabs":         PlatformSauceLabs,
	"sauce":             PlatformSauceLabs,
	"sauce-labs-visual": PlatformSauceLabs,
	"smartui":           PlatformSmartUI,
	"lambdatest":        PlatformSmartUI,
}

var frameworkAliases = map[string]Framework{
	"cypress":     FrameworkCypress,
	"playwright":  FrameworkPlaywright,
	"puppeteer":   FrameworkPuppeteer,
	"webdriverio": FrameworkWebdriverIO,
	"wdio":        FrameworkWebdriverIO,
	"storybook":   FrameworkStorybook,
	"selenium":    FrameworkSelenium,
	"webdriver":   FrameworkSelenium,
}

var languageAliases = map[string]Language{
	"javascript": LanguageJavaScript,
	"js":         LanguageJavaScript,
	"typescript": LanguageTypeScript,
	"ts":         LanguageTypeScript,
	"java":       LanguageJava,
	"python":     LanguagePython,
	"py":         LanguagePython,
}

// ParsePlatform resolves a platform name or alias
func ParsePlatform(name string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := platformAliases[key]; ok {
		return p, nil
	}
	return PlatformUnknown, unknownName("platform", name, keys(platformAliases))
}

// ParseFramework resolves a framework name or alias
func ParseFramework(name string) (Framework, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := frameworkAliases[key]; ok {
		return f, nil
	}
	return FrameworkUnknown, unknownName("framework", name, keys(frameworkAliases))
}

// ParseLanguage resolves a language name or alias
func ParseLanguage(name string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if l, ok := languageAliases[key]; ok {
		return l, nil
	}
	return LanguageUnknown, unknownName("language", name, keys(languageAliases))
}

// Suggest returns the candidate closest to input by Levenshtein distance,
// or "" when nothing is within maxDistance
func Suggest(input string, candidates []string, maxDistance int) string {
	best := ""
	bestDistance := maxDistance + 1
	for _, candidate := range candidates {
		distance := edlib.LevenshteinDistance(strings.ToLower(input), strings.ToLower(candidate))
		if distance < bestDistance {
			bestDistance = distance
			best = candidate
		}
	}
	return best
}

func unknownName(kind, name string, known []string) error {
	if s := Suggest(name, known, 3); s != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, name, s)
	}
	return fmt.Errorf("unknown %s %q", kind, name)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
