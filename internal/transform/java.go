package transform

import (
	"sort"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Class names assumed imported by a wildcard import of a platform package
var wildcardClasses = []string{
	"Eyes", "Target", "ClassicRunner", "VisualGridRunner", "EyesRunner", "Configuration",
	"BatchInfo", "RectangleSize", "BrowserType", "DeviceName", "MatchLevel", "StitchMode",
	"Percy", "VisualApi", "CheckOptions", "DataCenter",
}

// percy-java-selenium snapshot(name, widths, minHeight, enableJavaScript, percyCSS, scope)
var percyPositional = []string{"", "widths", "minHeight", "enableJavaScript", "percyCSS", "scope"}

type javaVisitor struct {
	*rewriter
	rules     *platformRules
	framework types.Framework

	classes    map[string]bool
	receivers  map[string]bool // tracked instance expressions; true for snapshot clients
	drivers    map[string]string
	removed    map[string]string
	importDone bool
	anchor     int // offset after the package declaration or last import
}

func newJavaVisitor(r *rewriter, rules *platformRules, fw types.Framework) *javaVisitor {
	return &javaVisitor{
		rewriter:  r,
		rules:     rules,
		framework: fw,
		classes:   make(map[string]bool),
		receivers: make(map[string]bool),
		drivers:   make(map[string]string),
		removed:   make(map[string]string),
	}
}

func (v *javaVisitor) visit(root *tree_sitter.Node) {
	for _, n := range namedChildren(root) {
		switch n.Kind() {
		case "package_declaration":
			v.noteAnchor(n)
		case "import_declaration":
			v.noteAnchor(n)
			v.visitImport(n)
		}
	}
	if len(v.classes) == 0 {
		return
	}

	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "local_variable_declaration", "field_declaration":
			v.visitDeclaration(n)
		case "assignment_expression":
			v.visitAssignment(n)
		}
		return true
	})

	walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "method_invocation" && !v.covered(n) {
			v.visitInvocation(n)
		}
		return true
	})

	if !v.importDone && v.snapshots > 0 {
		v.insert(v.anchor, "import "+javaSnapshotClass+";\n")
	}
	v.warnLeftovers(root)
}

func (v *javaVisitor) noteAnchor(n *tree_sitter.Node) {
	if end, ok := lineRemainder(v.src, int(n.EndByte())); ok {
		v.anchor = end
	}
}

func (v *javaVisitor) visitImport(n *tree_sitter.Node) {
	nameNode := findChildByType(n, "scoped_identifier")
	if nameNode == nil {
		nameNode = findChildByType(n, "identifier")
	}
	name := v.text(nameNode)
	if !v.rules.javaImport(name + ".") {
		return
	}

	if findChildByType(n, "asterisk") != nil {
		for _, c := range wildcardClasses {
			v.classes[c] = true
		}
	} else {
		simple := name[strings.LastIndex(name, ".")+1:]
		if findChildByType(n, "static") != nil {
			// import static com.applitools...Target.region; binds a method, not a class
			simple = strings.TrimSuffix(name, "."+simple)
			simple = simple[strings.LastIndex(simple, ".")+1:]
		}
		v.classes[simple] = true
	}

	if !v.importDone {
		v.importDone = true
		v.replace(n, "import "+javaSnapshotClass+";")
		v.warnf(n, "%s imports replaced by %s", v.rules.platform.DisplayName(), javaSnapshotClass)
		return
	}
	v.remove(n)
}

// platformType reports whether a type expression names a platform class
func (v *javaVisitor) platformType(typeText string) (string, bool) {
	if i := strings.IndexByte(typeText, '<'); i >= 0 {
		typeText = typeText[:i]
	}
	for _, part := range strings.Split(typeText, ".") {
		if v.classes[strings.TrimSpace(part)] {
			return strings.TrimSpace(part), true
		}
	}
	return "", false
}

// creation finds the platform object built by value: new X(...) possibly
// followed by builder calls
func (v *javaVisitor) creation(value *tree_sitter.Node) (string, *tree_sitter.Node, bool) {
	var found *tree_sitter.Node
	walk(value, func(n *tree_sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() == "object_creation_expression" {
			if _, ok := v.platformType(v.text(field(n, "type"))); ok {
				found = n
			}
			return false
		}
		return n.Kind() == "method_invocation" || n.Kind() == "parenthesized_expression"
	})
	if found == nil {
		return "", nil, false
	}
	class, _ := v.platformType(v.text(field(found, "type")))
	return class, found, true
}

// track records name (and this.name) as a platform instance
func (v *javaVisitor) track(name, class string, creation *tree_sitter.Node) {
	bare := strings.TrimPrefix(name, "this.")
	client := v.rules.clientClasses[class]
	for _, key := range []string{bare, "this." + bare} {
		v.receivers[key] = client
		v.removed[key] = class
	}
	if creation != nil && class != "Eyes" {
		if args := namedChildren(field(creation, "arguments")); len(args) > 0 && nodeKind(args[0]) == "identifier" {
			v.drivers[bare] = v.text(args[0])
		}
	}
}

func (v *javaVisitor) driverOf(recv string) string {
	if d := v.drivers[strings.TrimPrefix(recv, "this.")]; d != "" {
		return d
	}
	return defaultDriver(v.framework)
}

func (v *javaVisitor) visitDeclaration(n *tree_sitter.Node) {
	class, ok := v.platformType(v.text(field(n, "type")))
	if !ok {
		return
	}
	var names []string
	for _, c := range namedChildren(n) {
		if c.Kind() != "variable_declarator" {
			continue
		}
		name := v.text(field(c, "name"))
		_, creation, _ := v.creation(field(c, "value"))
		v.track(name, class, creation)
		names = append(names, name)
	}
	v.remove(n)
	v.warnf(n, "%s %s removed", class, strings.Join(names, ", "))
}

func (v *javaVisitor) visitAssignment(n *tree_sitter.Node) {
	left := v.text(field(n, "left"))
	class, creation, ok := v.creation(field(n, "right"))
	if !ok {
		return
	}
	v.track(left, class, creation)
	if stmt := parent(n); nodeKind(stmt) == "expression_statement" {
		v.remove(stmt)
		v.warnf(n, "%s %s removed", class, left)
		return
	}
	v.warnf(n, "construction of %s kept: it is not a standalone statement, review manually", class)
}

func (v *javaVisitor) visitInvocation(call *tree_sitter.Node) {
	object := field(call, "object")
	if object == nil {
		return
	}
	objText := v.text(object)
	method := v.text(field(call, "name"))
	args := namedChildren(field(call, "arguments"))

	if client, ok := v.receivers[objText]; ok {
		if !client {
			v.lifecycleCall(call, objText+"."+method)
			return
		}
		v.clientCall(call, objText, method, args)
		return
	}

	if v.classes[objText] {
		// Target.window() inside a chain is consumed with the chain
		if p := parent(call); nodeKind(p) == "method_invocation" && sameNode(field(p, "object"), call) {
			return
		}
		v.lifecycleCall(call, objText+"."+method)
	}
}

func (v *javaVisitor) lifecycleCall(call *tree_sitter.Node, what string) {
	if stmt := wholeStatement(call); stmt != nil {
		v.remove(stmt)
		v.warnf(call, "%s removed: SmartUI has no equivalent", what)
		return
	}
	v.warnf(call, "%s kept: it is not a standalone statement, review manually", what)
}

func (v *javaVisitor) clientCall(call *tree_sitter.Node, recv, method string, args []*tree_sitter.Node) {
	switch {
	case v.rules.openMethods[method]:
		if len(args) > 0 {
			v.drivers[strings.TrimPrefix(recv, "this.")] = v.text(args[0])
		}
		if wholeStatement(call) != nil || len(args) == 0 {
			v.lifecycleCall(call, recv+"."+method)
			return
		}
		v.replace(call, v.text(args[0]))
		v.warnf(call, "%s.%s replaced by its driver argument", recv, method)

	case v.rules.snapshotMethods[method]:
		v.snapshot(call, recv, method, args)

	default:
		v.lifecycleCall(call, recv+"."+method)
	}
}

func (v *javaVisitor) snapshot(call *tree_sitter.Node, recv, method string, args []*tree_sitter.Node) {
	var opts smartOptions
	var name string
	rest := args

	if strings.HasPrefix(method, "checkRegion") || strings.HasPrefix(method, "checkElement") {
		if len(rest) > 0 {
			if sel := v.selectorOf(rest[:1]); sel != "" {
				opts.Element = sel
			} else {
				v.warnf(rest[0], "region %s dropped: only CSS selectors carry over", v.text(rest[0]))
			}
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && nodeKind(rest[0]) != "method_invocation" && nodeKind(rest[0]) != "object_creation_expression" {
		name = v.text(rest[0])
		rest = rest[1:]
	}

	switch v.rules.platform {
	case types.PlatformPercy:
		opts = mergeOptions(opts, v.percyArgs(call, rest))
	case types.PlatformApplitools:
		for _, a := range rest {
			if chain, ok := v.chain(a, "Target"); ok {
				opts = mergeOptions(opts, v.mapTargetChain(chain, v.selectorOf, "true"))
				continue
			}
			v.warnf(a, "%s argument %s dropped", method, v.text(a))
		}
	case types.PlatformSauceLabs:
		for _, a := range rest {
			if chain, ok := v.builderChain(a, "CheckOptions"); ok {
				opts = mergeOptions(opts, v.mapOptions(v.rules.options, chain))
				continue
			}
			v.warnf(a, "check options %s dropped: SmartUI takes a Map of options, review manually", v.text(a))
		}
	}

	if name == "" {
		name = opts.Name
	}
	name = v.snapshotName(call, name, func(line int) string {
		return `"snapshot-` + strconv.Itoa(line) + `"`
	})

	driver := v.driverOf(recv)
	argList := []string{driver, name}
	switch {
	case len(opts.Extra) > 0:
		argList = append(argList, opts.Extra[0])
	case !opts.empty():
		argList = append(argList, opts.renderJava())
	}
	v.replace(call, javaSnapshotCall+"("+strings.Join(argList, ", ")+")")
	v.snapshots++

	if opts.Layout {
		v.emulateLayout(call, LayoutIntent{
			Language:  types.LanguageJava,
			Framework: v.framework,
			Driver:    driver,
			Selector:  opts.Element,
		})
	}
}

// percyArgs maps the positional overloads and the Map overload of Percy.snapshot
func (v *javaVisitor) percyArgs(call *tree_sitter.Node, rest []*tree_sitter.Node) smartOptions {
	if len(rest) == 1 {
		if entries, ok := v.mapOf(rest[0]); ok {
			return v.mapOptions(v.rules.options, entries)
		}
		if nodeKind(rest[0]) == "identifier" {
			v.warnf(rest[0], "options %s passed by reference kept verbatim; check the keys against SmartUI manually", v.text(rest[0]))
			return smartOptions{Extra: []string{v.text(rest[0])}}
		}
	}

	var entries []optionEntry
	for i, a := range rest {
		pos := i + 1
		if pos >= len(percyPositional) {
			v.warnf(a, "snapshot argument %s dropped", v.text(a))
			continue
		}
		if a.Kind() == "null_literal" {
			continue
		}
		entries = append(entries, optionEntry{Key: percyPositional[pos], Text: v.text(a), Node: a})
	}
	return v.mapOptions(v.rules.options, entries)
}

// mapOf reads Map.of("k", v, ...) into option entries
func (v *javaVisitor) mapOf(n *tree_sitter.Node) ([]optionEntry, bool) {
	if nodeKind(n) != "method_invocation" || v.text(field(n, "name")) != "of" || !strings.HasSuffix(v.text(field(n, "object")), "Map") {
		return nil, false
	}
	args := namedChildren(field(n, "arguments"))
	var entries []optionEntry
	for i := 0; i+1 < len(args); i += 2 {
		entries = append(entries, optionEntry{Key: unquote(v.text(args[i])), Text: v.text(args[i+1]), Node: args[i]})
	}
	return entries, true
}

// chain unwinds root.a().b()... where root is the given platform class
func (v *javaVisitor) chain(n *tree_sitter.Node, root string) ([]chainCall, bool) {
	var calls []chainCall
	cur := n
	for nodeKind(cur) == "method_invocation" {
		calls = append(calls, chainCall{
			Name: v.text(field(cur, "name")),
			Args: namedChildren(field(cur, "arguments")),
			Node: cur,
		})
		cur = field(cur, "object")
	}
	if cur == nil || v.text(cur) != root || len(calls) == 0 {
		return nil, false
	}
	reverse(calls)
	return calls, true
}

// builderChain reads new X.Builder().withA(..).setB(..).build() into option entries
func (v *javaVisitor) builderChain(n *tree_sitter.Node, class string) ([]optionEntry, bool) {
	var entries []optionEntry
	cur := n
	for nodeKind(cur) == "method_invocation" {
		method := v.text(field(cur, "name"))
		if method != "build" {
			text := "true"
			if args := namedChildren(field(cur, "arguments")); len(args) > 0 {
				text = v.text(args[0])
			}
			entries = append(entries, optionEntry{Key: builderOptionKey(method), Text: text, Node: cur})
		}
		cur = field(cur, "object")
	}
	if nodeKind(cur) != "object_creation_expression" || !strings.Contains(v.text(field(cur, "type")), class) {
		return nil, false
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, true
}

// selectorOf extracts a CSS selector string from By.cssSelector/By.id/By.className
// or a plain string argument
func (v *javaVisitor) selectorOf(args []*tree_sitter.Node) string {
	if len(args) == 0 {
		return ""
	}
	a := args[0]
	switch nodeKind(a) {
	case "string_literal", "identifier":
		return v.text(a)
	case "method_invocation":
		inner := namedChildren(field(a, "arguments"))
		if len(inner) == 0 {
			return ""
		}
		lit := inner[0]
		switch v.text(field(a, "name")) {
		case "cssSelector":
			return v.text(lit)
		case "id":
			if lit.Kind() == "string_literal" {
				return `"#` + unquote(v.text(lit)) + `"`
			}
		case "className":
			if lit.Kind() == "string_literal" {
				return `".` + unquote(v.text(lit)) + `"`
			}
		}
	}
	return ""
}

func (v *javaVisitor) warnLeftovers(root *tree_sitter.Node) {
	counts := make(map[string]int)
	walk(root, func(n *tree_sitter.Node) bool {
		if v.covered(n) {
			return false
		}
		switch n.Kind() {
		case "identifier", "type_identifier", "field_access":
			text := v.text(n)
			if _, ok := v.removed[text]; ok {
				counts[text]++
				return false
			}
			if n.Kind() == "type_identifier" && v.classes[text] {
				counts[text]++
			}
		}
		return true
	})

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.warnings = append(v.warnings, types.Warning{
			Message: v.path + ": " + strconv.Itoa(counts[name]) + " reference(s) to removed " + v.rules.platform.DisplayName() + " " + name + " remain; review manually",
		})
	}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
