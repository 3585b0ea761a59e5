package transform

import (
	"strings"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// SmartUI entry points
const (
	jsSnapshotFunc     = "smartuiSnapshot"
	cypressModule      = "@lambdatest/cypress-driver"
	javaSnapshotClass  = "io.github.lambdatest.SmartUISnapshot"
	javaSnapshotCall   = "SmartUISnapshot.smartuiSnapshot"
	pythonDriverModule = "lambdatest_selenium_driver"
	pythonSnapshotFunc = "smartui_snapshot"
)

var jsDriverModules = map[types.Framework]string{
	types.FrameworkCypress:     cypressModule,
	types.FrameworkPlaywright:  "@lambdatest/playwright-driver",
	types.FrameworkPuppeteer:   "@lambdatest/puppeteer-driver",
	types.FrameworkWebdriverIO: "@lambdatest/webdriverio-driver",
	types.FrameworkSelenium:    "@lambdatest/selenium-driver",
	types.FrameworkStorybook:   "@lambdatest/playwright-driver",
}

func jsDriverModule(fw types.Framework) string {
	if m, ok := jsDriverModules[fw]; ok {
		return m
	}
	return jsDriverModules[types.FrameworkSelenium]
}

// defaultDriver is the conventional browser handle name of each framework
func defaultDriver(fw types.Framework) string {
	switch fw {
	case types.FrameworkPlaywright, types.FrameworkPuppeteer, types.FrameworkStorybook:
		return "page"
	case types.FrameworkWebdriverIO:
		return "browser"
	case types.FrameworkCypress:
		return "cy"
	}
	return "driver"
}

// moduleStyle says how an imported platform module is rewritten
type moduleStyle int

const (
	// styleFunction modules export a snapshot function; only the specifier changes
	styleFunction moduleStyle = iota
	// styleClass modules export client classes; the import is replaced wholesale
	styleClass
	// styleCypress modules register cy commands; side-effect imports are retargeted
	styleCypress
)

type jsModule struct {
	Name      string
	Framework types.Framework
	Style     moduleStyle
}

// platformRules is the per-platform rewrite knowledge
type platformRules struct {
	platform types.Platform
	modules  []jsModule

	snapshotExports  map[string]bool // function exports that take a snapshot
	lifecycleExports map[string]bool
	clientClasses    map[string]bool // constructed clients whose methods take snapshots
	clientFactories  map[string]bool

	snapshotMethods map[string]bool
	openMethods     map[string]bool

	cypressSnapshot  map[string]bool
	cypressLifecycle func(string) bool

	javaPackages  []string
	pythonModules []string
	pythonExports map[string]bool

	options []optionRule
}

func set(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// rulesFor builds the rules for p from the signature tables. It returns nil for
// platforms the engine cannot read.
func rulesFor(p types.Platform, tables *signatures.Tables) *platformRules {
	var r *platformRules
	switch p {
	case types.PlatformPercy:
		r = &platformRules{
			snapshotExports:  set("percySnapshot", "percyScreenshot", "default"),
			lifecycleExports: set("isPercyEnabled"),
			clientClasses:    set("Percy"),
			snapshotMethods:  set("snapshot", "screenshot"),
			openMethods:      set(),
			cypressSnapshot:  set("percySnapshot"),
			cypressLifecycle: func(string) bool { return false },
			javaPackages:     []string{"io.percy."},
			pythonModules:    []string{"percy"},
			pythonExports:    set("percy_snapshot", "percy_screenshot"),
		}
	case types.PlatformApplitools:
		r = &platformRules{
			snapshotExports:  set(),
			lifecycleExports: set(),
			clientClasses:    set("Eyes"),
			snapshotMethods:  set("check", "checkWindow", "check_window", "checkRegion", "check_region", "checkElement", "checkElementBySelector", "check_region_by_selector"),
			openMethods:      set("open"),
			cypressSnapshot:  set("eyesCheckWindow"),
			cypressLifecycle: func(cmd string) bool { return strings.HasPrefix(cmd, "eyes") },
			javaPackages:     []string{"com.applitools."},
			pythonModules:    []string{"applitools"},
			pythonExports:    set(),
		}
	case types.PlatformSauceLabs:
		r = &platformRules{
			snapshotExports:  set("sauceVisualCheck"),
			lifecycleExports: set("sauceVisualSetup", "sauceVisualTeardown", "sauceVisualResults"),
			clientClasses:    set("VisualApi"),
			clientFactories:  set("getApi"),
			snapshotMethods:  set("sauceVisualCheck", "visualCheck"),
			openMethods:      set(),
			cypressSnapshot:  set("sauceVisualCheck"),
			cypressLifecycle: func(cmd string) bool { return cmd == "sauceVisualResults" },
			javaPackages:     []string{"com.saucelabs.visual."},
			pythonModules:    []string{"saucelabs_visual"},
			pythonExports:    set(),
		}
	default:
		return nil
	}

	r.platform = p
	r.options = optionRulesFor(p)
	if r.clientFactories == nil {
		r.clientFactories = set()
	}

	if sig, ok := tables.Platform(p); ok {
		for _, dep := range sig.Dependencies {
			if dep.Ecosystem != signatures.EcosystemNPM || strings.HasSuffix(dep.Name, "/cli") {
				continue
			}
			r.modules = append(r.modules, jsModule{
				Name:      dep.Name,
				Framework: dep.Framework,
				Style:     styleOf(p, dep),
			})
		}
	}
	return r
}

func styleOf(p types.Platform, dep signatures.Dependency) moduleStyle {
	if dep.Framework == types.FrameworkCypress {
		return styleCypress
	}
	if p == types.PlatformApplitools || dep.Name == "@saucelabs/visual" {
		return styleClass
	}
	return styleFunction
}

// matchModule resolves an import specifier, including sub-paths such as
// "@applitools/eyes-cypress/commands"
func (r *platformRules) matchModule(spec string) (jsModule, bool) {
	for _, m := range r.modules {
		if spec == m.Name || strings.HasPrefix(spec, m.Name+"/") {
			return m, true
		}
	}
	return jsModule{}, false
}

func (r *platformRules) javaImport(name string) bool {
	for _, pkg := range r.javaPackages {
		if strings.HasPrefix(name, pkg) {
			return true
		}
	}
	return false
}

func (r *platformRules) pythonModule(name string) bool {
	for _, m := range r.pythonModules {
		if name == m || strings.HasPrefix(name, m+".") {
			return true
		}
	}
	return false
}

// Supported reports whether the engine can rewrite platform code in lang
func Supported(p types.Platform, lang types.Language) bool {
	switch p {
	case types.PlatformPercy, types.PlatformApplitools:
		return lang != types.LanguageUnknown
	case types.PlatformSauceLabs:
		return lang != types.LanguageUnknown && lang != types.LanguagePython
	}
	return false
}
