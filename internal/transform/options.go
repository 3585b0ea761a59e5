package transform

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// optionKind says what a source option becomes in SmartUI
type optionKind int

const (
	optDrop optionKind = iota
	optFullPage
	optCustomCSS
	optElement
	optIgnore
	optName
	optLayout     // truthy value requests layout comparison
	optMatchLevel // "Layout" requests layout comparison, anything else is dropped
	optTarget     // "region" turns the selector option into the element
	optSelector
)

type optionRule struct {
	key  string
	kind optionKind
}

var percyOptionRules = []optionRule{
	{"percyCSS", optCustomCSS},
	{"scope", optElement},
	{"ignoreRegionSelectors", optIgnore},
	{"fullPage", optFullPage},
	{"enableLayout", optLayout},
	{"widths", optDrop},
	{"minHeight", optDrop},
	{"enableJavaScript", optDrop},
	{"discovery", optDrop},
	{"sync", optDrop},
	{"testCase", optDrop},
	{"labels", optDrop},
	{"domTransformation", optDrop},
}

var applitoolsOptionRules = []optionRule{
	{"tag", optName},
	{"name", optName},
	{"fully", optFullPage},
	{"target", optTarget},
	{"selector", optSelector},
	{"ignore", optIgnore},
	{"matchLevel", optMatchLevel},
	{"layoutBreakpoints", optDrop},
	{"sizeMode", optDrop},
	{"visualGridOptions", optDrop},
	{"browser", optDrop},
	{"accessibilityValidation", optDrop},
}

var sauceOptionRules = []optionRule{
	{"clipSelector", optElement},
	{"fullPage", optFullPage},
	{"ignoredRegions", optDrop},
	{"captureDom", optDrop},
	{"diffingMethod", optDrop},
	{"diffingOptions", optDrop},
	{"disableOnly", optDrop},
	{"hideScrollBars", optDrop},
	{"delay", optDrop},
}

func optionRulesFor(p types.Platform) []optionRule {
	switch p {
	case types.PlatformPercy:
		return percyOptionRules
	case types.PlatformApplitools:
		return applitoolsOptionRules
	case types.PlatformSauceLabs:
		return sauceOptionRules
	}
	return nil
}

func lookupRule(rules []optionRule, key string) (optionRule, bool) {
	norm := normalizeKey(key)
	for _, rule := range rules {
		if normalizeKey(rule.key) == norm {
			return rule, true
		}
	}
	return optionRule{}, false
}

func ruleKeys(rules []optionRule) []string {
	out := make([]string, len(rules))
	for i, rule := range rules {
		out[i] = rule.key
	}
	return out
}

// optionEntry is one source option with its value expression verbatim
type optionEntry struct {
	Key  string
	Text string
	Node *tree_sitter.Node

	// Items holds array elements when the value is a list literal
	Items []string
}

// smartOptions is the language-neutral SmartUI options value. Every field
// holds expression text in the target language.
type smartOptions struct {
	FullPage  string
	CustomCSS string
	Element   string
	Ignore    []string
	IgnoreRaw string
	Leading   []string // spreads written before the first key
	Extra     []string // spreads kept verbatim
	Name      string
	Layout    bool
}

func (o smartOptions) empty() bool {
	return o.FullPage == "" && o.CustomCSS == "" && o.Element == "" &&
		len(o.Ignore) == 0 && o.IgnoreRaw == "" && len(o.Leading) == 0 && len(o.Extra) == 0
}

func (o *smartOptions) addIgnore(e optionEntry) {
	if e.Items != nil {
		o.Ignore = append(o.Ignore, e.Items...)
		return
	}
	if o.IgnoreRaw == "" && len(o.Ignore) == 0 {
		o.IgnoreRaw = e.Text
		return
	}
	o.Ignore = append(o.Ignore, e.Text)
}

func falsy(text string) bool {
	switch strings.TrimSpace(text) {
	case "false", "False", "0", "null", "None", "undefined", "Boolean.FALSE":
		return true
	}
	return false
}

// mapOptions translates source option entries through the platform table.
// Every field without a SmartUI counterpart produces one warning.
func (r *rewriter) mapOptions(rules []optionRule, entries []optionEntry) smartOptions {
	var out smartOptions
	var target, selector string
	var selectorEntry optionEntry

	for _, e := range entries {
		rule, ok := lookupRule(rules, e.Key)
		if !ok {
			if s := types.Suggest(e.Key, ruleKeys(rules), 3); s != "" {
				r.warnDetail(e.Node, "did you mean "+s+"?", "unknown option %q dropped (did you mean %q?)", e.Key, s)
			} else {
				r.warnf(e.Node, "unknown option %q dropped", e.Key)
			}
			continue
		}

		switch rule.kind {
		case optFullPage:
			out.FullPage = e.Text
		case optCustomCSS:
			out.CustomCSS = e.Text
		case optElement:
			out.Element = e.Text
		case optIgnore:
			out.addIgnore(e)
		case optName:
			out.Name = e.Text
		case optLayout:
			if !falsy(e.Text) {
				out.Layout = true
			}
		case optMatchLevel:
			if strings.EqualFold(unquote(strings.TrimSpace(e.Text)), "layout") || strings.HasSuffix(e.Text, ".Layout") || strings.HasSuffix(e.Text, ".LAYOUT") {
				out.Layout = true
			} else {
				r.warnf(e.Node, "option %q (%s) dropped: SmartUI has no equivalent match level", e.Key, e.Text)
			}
		case optTarget:
			target = strings.ToLower(unquote(strings.TrimSpace(e.Text)))
		case optSelector:
			selector = e.Text
			selectorEntry = e
		default:
			r.warnf(e.Node, "option %q dropped: SmartUI has no equivalent", e.Key)
		}
	}

	if selector != "" {
		if target == "window" {
			r.warnf(selectorEntry.Node, "option %q dropped: target is the whole window", selectorEntry.Key)
		} else {
			out.Element = selector
		}
	}
	return out
}

// chainCall is one link of a fluent builder chain such as Target.window().fully()
type chainCall struct {
	Name string
	Args []*tree_sitter.Node
	Node *tree_sitter.Node
}

// mapTargetChain translates an Applitools check-settings chain. selector
// extracts a CSS selector expression from a region() argument list and
// trueLit is the target language's true literal.
func (r *rewriter) mapTargetChain(calls []chainCall, selector func([]*tree_sitter.Node) string, trueLit string) smartOptions {
	var out smartOptions
	for _, c := range calls {
		switch normalizeKey(c.Name) {
		case "window":
		case "fully":
			out.FullPage = trueLit
			if len(c.Args) > 0 {
				out.FullPage = r.text(c.Args[0])
			}
		case "region":
			if sel := selector(c.Args); sel != "" {
				out.Element = sel
			} else {
				r.warnf(c.Node, "region target %s dropped: only CSS selectors carry over", r.argsText(c.Args))
			}
		case "ignore", "ignoreregions", "ignoreregion":
			for _, a := range c.Args {
				if sel := selector([]*tree_sitter.Node{a}); sel != "" {
					out.Ignore = append(out.Ignore, sel)
				} else {
					r.warnf(a, "ignore region %s dropped: only CSS selectors carry over", r.text(a))
				}
			}
		case "layout":
			out.Layout = true
		case "matchlevel":
			if len(c.Args) > 0 && strings.Contains(strings.ToLower(r.text(c.Args[0])), "layout") {
				out.Layout = true
			} else {
				r.warnf(c.Node, "%s%s dropped: SmartUI has no equivalent match level", c.Name, r.argsText(c.Args))
			}
		case "withname", "name":
			if len(c.Args) > 0 {
				out.Name = r.text(c.Args[0])
			}
		default:
			r.warnf(c.Node, "check setting %s%s dropped: SmartUI has no equivalent", c.Name, r.argsText(c.Args))
		}
	}
	return out
}

func (r *rewriter) argsText(args []*tree_sitter.Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = r.text(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// builderOptionKey turns withClipSelector / setFullPage into clipSelector / fullPage
func builderOptionKey(method string) string {
	for _, prefix := range []string{"with", "set"} {
		if rest, ok := strings.CutPrefix(method, prefix); ok && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
			return strings.ToLower(rest[:1]) + rest[1:]
		}
	}
	return method
}

// renderJS renders options as a JavaScript object literal
func (o smartOptions) renderJS() string {
	parts := append([]string(nil), o.Leading...)
	if o.FullPage != "" {
		parts = append(parts, "fullPage: "+o.FullPage)
	}
	if o.CustomCSS != "" {
		parts = append(parts, "customCSS: "+o.CustomCSS)
	}
	if o.Element != "" {
		parts = append(parts, "element: { cssSelector: "+o.Element+" }")
	}
	if ignore := o.ignoreExpr("[", "]"); ignore != "" {
		parts = append(parts, "ignoreDOM: { cssSelector: "+ignore+" }")
	}
	parts = append(parts, o.Extra...)
	return "{ " + strings.Join(parts, ", ") + " }"
}

// renderPython renders options as a dict display
func (o smartOptions) renderPython() string {
	parts := append([]string(nil), o.Leading...)
	if o.FullPage != "" {
		parts = append(parts, `"fullPage": `+o.FullPage)
	}
	if o.CustomCSS != "" {
		parts = append(parts, `"customCSS": `+o.CustomCSS)
	}
	if o.Element != "" {
		parts = append(parts, `"element": {"cssSelector": `+o.Element+"}")
	}
	if ignore := o.ignoreExpr("[", "]"); ignore != "" {
		parts = append(parts, `"ignoreDOM": {"cssSelector": `+ignore+"}")
	}
	parts = append(parts, o.Extra...)
	return "{" + strings.Join(parts, ", ") + "}"
}

// renderJava renders options as an immutable java.util.Map
func (o smartOptions) renderJava() string {
	var parts []string
	if o.FullPage != "" {
		parts = append(parts, `"fullPage", `+o.FullPage)
	}
	if o.CustomCSS != "" {
		parts = append(parts, `"customCSS", `+o.CustomCSS)
	}
	if o.Element != "" {
		parts = append(parts, `"element", java.util.Map.of("cssSelector", `+o.Element+")")
	}
	if ignore := o.ignoreExpr("java.util.List.of(", ")"); ignore != "" {
		parts = append(parts, `"ignoreDOM", java.util.Map.of("cssSelector", `+ignore+")")
	}
	return "java.util.Map.of(" + strings.Join(parts, ", ") + ")"
}

func (o smartOptions) ignoreExpr(open, close string) string {
	if o.IgnoreRaw != "" && len(o.Ignore) == 0 {
		return o.IgnoreRaw
	}
	items := o.Ignore
	if o.IgnoreRaw != "" {
		items = append([]string{o.IgnoreRaw}, items...)
	}
	if len(items) == 0 {
		return ""
	}
	return open + strings.Join(items, ", ") + close
}
