package transform

import (
	"sort"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

type pythonVisitor struct {
	*rewriter
	rules     *platformRules
	framework types.Framework

	functions  map[string]string // bound snapshot function -> callee after rewrite
	namespaces map[string]bool   // module aliases such as "percy" or "applitools.selenium"
	classes    map[string]bool
	receivers  map[string]bool // tracked instance expressions; true for snapshot clients
	drivers    map[string]string
	removed    map[string]string
	emptied    []*tree_sitter.Node // statements removed outright

	imports map[string]bool // rendered import lines, to drop duplicates
}

func newPythonVisitor(r *rewriter, rules *platformRules, fw types.Framework) *pythonVisitor {
	return &pythonVisitor{
		rewriter:   r,
		rules:      rules,
		framework:  fw,
		functions:  make(map[string]string),
		namespaces: make(map[string]bool),
		classes:    make(map[string]bool),
		receivers:  make(map[string]bool),
		drivers:    make(map[string]string),
		removed:    make(map[string]string),
		imports:    make(map[string]bool),
	}
}

func (v *pythonVisitor) visit(root *tree_sitter.Node) {
	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_from_statement":
			v.visitFromImport(n)
			return false
		case "import_statement":
			v.visitImport(n)
			return false
		}
		return true
	})
	if len(v.functions) == 0 && len(v.namespaces) == 0 && len(v.classes) == 0 {
		return
	}

	walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "assignment" && !v.covered(n) {
			v.visitAssignment(n)
		}
		return true
	})

	walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "call" && !v.covered(n) {
			v.visitCall(n)
		}
		return true
	})

	v.fillEmptiedBlocks()
	v.warnLeftovers(root)
}

// removeStatement deletes stmt and remembers it so an emptied block gets a pass
func (v *pythonVisitor) removeStatement(stmt *tree_sitter.Node) {
	v.remove(stmt)
	v.emptied = append(v.emptied, stmt)
}

// emitImport replaces n with line unless the same line was already emitted
func (v *pythonVisitor) emitImport(n *tree_sitter.Node, line string) {
	if v.imports[line] {
		v.removeStatement(n)
		return
	}
	v.imports[line] = true
	v.replace(n, line)
}

func (v *pythonVisitor) visitFromImport(n *tree_sitter.Node) {
	moduleNode := field(n, "module_name")
	module := v.text(moduleNode)
	if !v.rules.pythonModule(module) {
		return
	}

	var names []string
	var dropped []string
	for _, c := range namedChildren(n) {
		if sameNode(c, moduleNode) {
			continue
		}
		switch c.Kind() {
		case "wildcard_import":
			for export := range v.rules.pythonExports {
				v.functions[export] = pythonSnapshotFunc
			}
			for _, cls := range wildcardClasses {
				v.classes[cls] = true
			}
			if len(v.rules.pythonExports) > 0 {
				names = append(names, pythonSnapshotFunc)
			}
		case "dotted_name", "aliased_import":
			name, alias := v.text(c), ""
			if c.Kind() == "aliased_import" {
				name, alias = v.text(field(c, "name")), v.text(field(c, "alias"))
			}
			local := name
			if alias != "" {
				local = alias
			}
			switch {
			case v.rules.pythonExports[name]:
				if alias != "" {
					v.functions[alias] = alias
					names = append(names, pythonSnapshotFunc+" as "+alias)
				} else {
					v.functions[name] = pythonSnapshotFunc
					names = append(names, pythonSnapshotFunc)
				}
			case len(v.rules.pythonExports) > 0:
				v.removed[local] = name
				dropped = append(dropped, name)
			default:
				v.classes[local] = true
			}
		}
	}

	if len(dropped) > 0 {
		v.warnf(n, "%s dropped from the %s import: SmartUI has no equivalent", strings.Join(dropped, ", "), module)
	}
	if len(v.rules.pythonExports) == 0 {
		// client-class platforms: the snapshot function replaces the whole import
		v.emitImport(n, "from "+pythonDriverModule+" import "+pythonSnapshotFunc)
		return
	}
	if len(names) == 0 {
		v.removeStatement(n)
		return
	}
	v.emitImport(n, "from "+pythonDriverModule+" import "+strings.Join(names, ", "))
}

func (v *pythonVisitor) visitImport(n *tree_sitter.Node) {
	var kept []string
	matched := false
	for _, c := range namedChildren(n) {
		name, alias := v.text(c), ""
		if c.Kind() == "aliased_import" {
			name, alias = v.text(field(c, "name")), v.text(field(c, "alias"))
		}
		if !v.rules.pythonModule(name) {
			kept = append(kept, v.text(c))
			continue
		}
		matched = true
		local := name
		if alias != "" {
			local = alias
		}
		v.namespaces[local] = true
		if len(v.rules.pythonExports) > 0 {
			kept = append(kept, pythonDriverModule+" as "+local)
		}
	}
	if !matched {
		return
	}

	if len(v.rules.pythonExports) == 0 {
		// client-class platform: calls will use the bare snapshot function
		if len(kept) > 0 {
			v.replace(n, "import "+strings.Join(kept, ", "))
			v.insert(int(n.StartByte()), "from "+pythonDriverModule+" import "+pythonSnapshotFunc+"\n"+v.indentAt(n))
			v.imports["from "+pythonDriverModule+" import "+pythonSnapshotFunc] = true
			return
		}
		v.emitImport(n, "from "+pythonDriverModule+" import "+pythonSnapshotFunc)
		return
	}
	v.replace(n, "import "+strings.Join(kept, ", "))
}

// platformClass reports whether expr names an imported platform class,
// directly or through an imported module alias
func (v *pythonVisitor) platformClass(expr string) (string, bool) {
	if v.classes[expr] {
		return expr, true
	}
	if i := strings.LastIndexByte(expr, '.'); i > 0 && v.namespaces[expr[:i]] {
		return expr[i+1:], true
	}
	for ns := range v.namespaces {
		if rest, ok := strings.CutPrefix(expr, ns+"."); ok && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
			return rest[strings.LastIndexByte(rest, '.')+1:], true
		}
	}
	return "", false
}

// tracked returns the tracked instance expr belongs to, if any
func (v *pythonVisitor) tracked(expr string) (string, bool) {
	for recv := range v.receivers {
		if expr == recv || strings.HasPrefix(expr, recv+".") {
			return recv, true
		}
	}
	return "", false
}

func (v *pythonVisitor) visitAssignment(n *tree_sitter.Node) {
	left := v.text(field(n, "left"))
	right := field(n, "right")
	stmt := parent(n)

	if recv, ok := v.tracked(left); ok && left != recv {
		// eyes.api_key = ... configures the removed client
		if nodeKind(stmt) == "expression_statement" {
			v.removeStatement(stmt)
			v.warnf(n, "%s removed: SmartUI has no equivalent", left)
		}
		return
	}

	if nodeKind(right) != "call" {
		return
	}
	class, ok := v.platformClass(v.text(field(right, "function")))
	if !ok {
		return
	}
	client := v.rules.clientClasses[class]
	v.receivers[left] = client
	v.removed[left] = class
	if client && class != "Eyes" {
		if args := namedChildren(field(right, "arguments")); len(args) > 0 && args[0].Kind() == "identifier" {
			v.drivers[left] = v.text(args[0])
		}
	}
	if nodeKind(stmt) == "expression_statement" {
		v.removeStatement(stmt)
		v.warnf(n, "%s %s removed", class, left)
		return
	}
	v.warnf(n, "construction of %s kept: it is not a standalone statement, review manually", class)
}

func (v *pythonVisitor) visitCall(call *tree_sitter.Node) {
	fn := field(call, "function")
	fnText := v.text(fn)

	if callee, ok := v.functions[fnText]; ok {
		v.snapshot(call, callee, callArgs(call))
		return
	}
	if nodeKind(fn) != "attribute" {
		if _, ok := v.platformClass(fnText); ok {
			v.lifecycleCall(call, fnText, false)
		}
		return
	}

	object := v.text(field(fn, "object"))
	method := v.text(field(fn, "attribute"))

	if v.namespaces[object] {
		if v.rules.pythonExports[method] {
			v.snapshot(call, object+"."+pythonSnapshotFunc, callArgs(call))
			return
		}
		v.lifecycleCall(call, fnText, false)
		return
	}

	if client, ok := v.receivers[object]; ok && client {
		v.clientCall(call, object, method)
		return
	}
	if _, ok := v.tracked(object); ok {
		v.lifecycleCall(call, fnText, true)
		return
	}
	if _, ok := v.platformClass(object); ok {
		// Target.window() inside a chain is consumed with the chain
		if nodeKind(parent(call)) == "attribute" {
			return
		}
		v.lifecycleCall(call, fnText, false)
	}
}

// lifecycleCall removes a platform call that stands alone as a statement.
// Calls used as values are left for manual review; loud adds a warning.
func (v *pythonVisitor) lifecycleCall(call *tree_sitter.Node, what string, loud bool) {
	if stmt := wholeStatement(call); stmt != nil {
		v.removeStatement(stmt)
		v.warnf(call, "%s removed: SmartUI has no equivalent", what)
		return
	}
	if loud {
		v.warnf(call, "%s kept: it is not a standalone statement, review manually", what)
	}
}

func (v *pythonVisitor) clientCall(call *tree_sitter.Node, recv, method string) {
	args := callArgs(call)
	switch {
	case v.rules.openMethods[method]:
		driver := args.keyword(v, "driver")
		if driver == nil && len(args.positional) > 0 {
			driver = args.positional[0]
		}
		if driver != nil {
			v.drivers[recv] = v.text(driver)
		}
		if wholeStatement(call) != nil || driver == nil {
			v.lifecycleCall(call, recv+"."+method, true)
			return
		}
		v.replace(call, v.text(driver))
		v.warnf(call, "%s.%s replaced by its driver argument", recv, method)

	case v.rules.snapshotMethods[method]:
		v.clientSnapshot(call, recv, method, args)

	default:
		v.lifecycleCall(call, recv+"."+method, true)
	}
}

func (v *pythonVisitor) clientSnapshot(call *tree_sitter.Node, recv, method string, args pyArgs) {
	var opts smartOptions
	rest := args.positional

	if method == "check_region" || strings.HasPrefix(method, "checkRegion") || strings.HasPrefix(method, "check_region_by") {
		if sel, used := v.locator(rest); used > 0 {
			if sel != "" {
				opts.Element = sel
			} else {
				v.warnf(rest[0], "region %s dropped: only CSS selectors carry over", v.text(rest[0]))
			}
			rest = rest[used:]
		}
	}

	var name string
	var chains []*tree_sitter.Node
	for _, a := range rest {
		if a.Kind() == "call" {
			chains = append(chains, a)
			continue
		}
		if name == "" {
			name = v.text(a)
			continue
		}
		v.warnf(a, "%s argument %s dropped", method, v.text(a))
	}
	for _, c := range chains {
		if chain, ok := v.chain(c, "Target"); ok {
			opts = mergeOptions(opts, v.mapTargetChain(chain, v.selectorOf, "True"))
			continue
		}
		v.warnf(c, "%s argument %s dropped", method, v.text(c))
	}
	opts = mergeOptions(opts, v.mapOptions(v.rules.options, args.entries(v)))
	v.keepSplats(call, args, &opts)
	if kw := args.keyword(v, "name"); kw != nil && name == "" {
		name = v.text(kw)
	}
	if name == "" {
		name = opts.Name
	}

	v.emit(call, pythonSnapshotFunc, v.driverOf(recv), name, opts)
}

func (v *pythonVisitor) driverOf(recv string) string {
	if d := v.drivers[recv]; d != "" {
		return d
	}
	return defaultDriver(v.framework)
}

// snapshot rewrites a function-style call: percy_snapshot(driver, name, **options)
func (v *pythonVisitor) snapshot(call *tree_sitter.Node, callee string, args pyArgs) {
	var driver, name string
	pos := args.positional
	if d := args.keyword(v, "driver", "page"); d != nil {
		driver = v.text(d)
	} else if len(pos) > 0 {
		driver, pos = v.text(pos[0]), pos[1:]
	}
	if d := args.keyword(v, "name"); d != nil {
		name = v.text(d)
	} else if len(pos) > 0 {
		name, pos = v.text(pos[0]), pos[1:]
	}
	for _, a := range pos {
		v.warnf(a, "snapshot argument %s dropped", v.text(a))
	}
	if driver == "" {
		driver = defaultDriver(v.framework)
	}

	opts := v.mapOptions(v.rules.options, args.entries(v))
	v.keepSplats(call, args, &opts)
	v.emit(call, callee, driver, name, opts)
}

func (v *pythonVisitor) keepSplats(call *tree_sitter.Node, args pyArgs, opts *smartOptions) {
	leading, trailing := args.splats(v)
	if all := append(append([]string(nil), leading...), trailing...); len(all) > 0 {
		v.warnf(call, "options %s passed by reference kept verbatim; check the keys against SmartUI manually", strings.Join(all, ", "))
	}
	opts.Leading = append(opts.Leading, leading...)
	opts.Extra = append(opts.Extra, trailing...)
}

func (v *pythonVisitor) emit(call *tree_sitter.Node, callee, driver, name string, opts smartOptions) {
	name = v.snapshotName(call, name, func(line int) string {
		return `"snapshot-` + strconv.Itoa(line) + `"`
	})
	argList := []string{driver, name}
	if !opts.empty() {
		argList = append(argList, opts.renderPython())
	}
	v.replace(call, callee+"("+strings.Join(argList, ", ")+")")
	v.snapshots++

	if opts.Layout {
		v.emulateLayout(call, LayoutIntent{
			Language:  types.LanguagePython,
			Framework: v.framework,
			Driver:    driver,
			Selector:  opts.Element,
		})
	}
}

// chain unwinds Target.window().fully()... into its links
func (v *pythonVisitor) chain(n *tree_sitter.Node, root string) ([]chainCall, bool) {
	var calls []chainCall
	cur := n
	for nodeKind(cur) == "call" {
		fn := field(cur, "function")
		if nodeKind(fn) != "attribute" {
			return nil, false
		}
		calls = append(calls, chainCall{
			Name: v.text(field(fn, "attribute")),
			Args: callArgs(cur).positional,
			Node: cur,
		})
		cur = field(fn, "object")
	}
	if cur == nil || (v.text(cur) != root && !strings.HasSuffix(v.text(cur), "."+root)) || len(calls) == 0 {
		return nil, false
	}
	reverse(calls)
	return calls, true
}

// locator reads a region locator from the head of args: a selector string,
// a (By.CSS_SELECTOR, "sel") tuple or the By.X, "sel" pair. It returns the
// selector and the number of arguments consumed.
func (v *pythonVisitor) locator(args []*tree_sitter.Node) (string, int) {
	if len(args) == 0 {
		return "", 0
	}
	a := args[0]
	switch a.Kind() {
	case "string", "identifier":
		return v.text(a), 1
	case "tuple":
		items := namedChildren(a)
		if len(items) == 2 {
			return v.byLocator(items[0], items[1]), 1
		}
	case "attribute":
		if len(args) > 1 {
			return v.byLocator(a, args[1]), 2
		}
	}
	return "", 1
}

func (v *pythonVisitor) byLocator(by, value *tree_sitter.Node) string {
	kind := v.text(by)
	switch {
	case strings.HasSuffix(kind, "CSS_SELECTOR"):
		return v.text(value)
	case strings.HasSuffix(kind, ".ID") && value.Kind() == "string":
		return `"#` + unquote(v.text(value)) + `"`
	case strings.HasSuffix(kind, "CLASS_NAME") && value.Kind() == "string":
		return `".` + unquote(v.text(value)) + `"`
	}
	return ""
}

func (v *pythonVisitor) selectorOf(args []*tree_sitter.Node) string {
	sel, _ := v.locator(args)
	return sel
}

// fillEmptiedBlocks puts a pass where removals left a block without statements
func (v *pythonVisitor) fillEmptiedBlocks() {
	gone := make(map[uint]bool, len(v.emptied))
	for _, stmt := range v.emptied {
		gone[stmt.StartByte()] = true
	}
	done := make(map[uint]bool)
	for _, stmt := range v.emptied {
		block := parent(stmt)
		if nodeKind(block) != "block" || done[block.StartByte()] {
			continue
		}
		children := namedChildren(block)
		empty := true
		for _, c := range children {
			if !gone[c.StartByte()] {
				empty = false
				break
			}
		}
		if !empty || len(children) == 0 {
			continue
		}
		done[block.StartByte()] = true
		first := children[0]
		start := int(first.StartByte())
		if startsLine(v.src, start) {
			v.insert(lineStart(v.src, start), v.indentAt(first)+"pass\n")
		} else {
			v.insert(start, "pass")
		}
	}
}

func (v *pythonVisitor) warnLeftovers(root *tree_sitter.Node) {
	counts := make(map[string]int)
	walk(root, func(n *tree_sitter.Node) bool {
		if v.covered(n) {
			return false
		}
		switch n.Kind() {
		case "attribute", "identifier":
			if _, ok := v.removed[v.text(n)]; ok {
				counts[v.text(n)]++
				return false
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

// pyArgs splits a call's argument list by kind
type pyArgs struct {
	positional []*tree_sitter.Node
	keywords   []*tree_sitter.Node
	splat      []*tree_sitter.Node
}

func callArgs(call *tree_sitter.Node) pyArgs {
	var out pyArgs
	for _, a := range namedChildren(field(call, "arguments")) {
		switch a.Kind() {
		case "keyword_argument":
			out.keywords = append(out.keywords, a)
		case "dictionary_splat":
			out.splat = append(out.splat, a)
		default:
			out.positional = append(out.positional, a)
		}
	}
	return out
}

func (a pyArgs) keyword(v *pythonVisitor, names ...string) *tree_sitter.Node {
	for _, kw := range a.keywords {
		key := v.text(field(kw, "name"))
		for _, want := range names {
			if key == want {
				return field(kw, "value")
			}
		}
	}
	return nil
}

// entries turns keyword arguments other than driver/page/name into option entries
func (a pyArgs) entries(v *pythonVisitor) []optionEntry {
	var out []optionEntry
	for _, kw := range a.keywords {
		key := v.text(field(kw, "name"))
		switch key {
		case "driver", "page", "name":
			continue
		}
		value := field(kw, "value")
		e := optionEntry{Key: key, Text: v.text(value), Node: kw}
		if nodeKind(value) == "list" || nodeKind(value) == "tuple" {
			e.Items = []string{}
			for _, item := range namedChildren(value) {
				e.Items = append(e.Items, v.text(item))
			}
		}
		out = append(out, e)
	}
	return out
}

// splats returns the **mapping arguments split around the first option
// keyword, so ones written before it can stay in front.
func (a pyArgs) splats(v *pythonVisitor) (leading, trailing []string) {
	first := ^uint(0)
	for _, kw := range a.keywords {
		if key := v.text(field(kw, "name")); key != "driver" && key != "page" && key != "name" {
			first = kw.StartByte()
			break
		}
	}
	for _, s := range a.splat {
		if s.StartByte() < first {
			leading = append(leading, v.text(s))
		} else {
			trailing = append(trailing, v.text(s))
		}
	}
	return leading, trailing
}
