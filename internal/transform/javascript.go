package transform

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Playwright test exports re-exported by the Applitools fixture module
var playwrightReexports = set("test", "expect", "devices", "defineConfig")

// jsVisitor rewrites JavaScript and TypeScript sources
type jsVisitor struct {
	*rewriter
	rules     *platformRules
	framework types.Framework
	lang      types.Language
	ext       string

	functions  map[string]string   // snapshot function binding -> callee after rewrite
	lifecycle  map[string]bool     // local names of lifecycle functions
	namespaces map[string]jsModule // namespace and whole-module bindings
	classes    map[string]string   // local class binding -> exported name
	plugins    map[string]bool     // Cypress plugin bindings
	receivers  map[string]bool     // tracked instance expressions; true for snapshot clients
	drivers    map[string]string   // receiver -> driver captured from open()/constructor
	removed    map[string]string   // removed binding -> what it was

	canonical   string // local name bound to smartuiSnapshot, "" when none
	classDone   bool
	needsImport bool
	hasImports  bool
	hasRequire  bool
	importEnd   int
	quote       string
	semicolon   bool
}

func newJSVisitor(r *rewriter, rules *platformRules, fw types.Framework, lang types.Language, path string) *jsVisitor {
	return &jsVisitor{
		rewriter:   r,
		rules:      rules,
		framework:  fw,
		lang:       lang,
		ext:        strings.ToLower(filepath.Ext(path)),
		functions:  make(map[string]string),
		lifecycle:  make(map[string]bool),
		namespaces: make(map[string]jsModule),
		classes:    make(map[string]string),
		plugins:    make(map[string]bool),
		receivers:  make(map[string]bool),
		drivers:    make(map[string]string),
		removed:    make(map[string]string),
		quote:      "'",
		semicolon:  true,
	}
}

func (v *jsVisitor) visit(root *tree_sitter.Node) {
	// bindings first: calls can only be recognized once imports are known
	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			v.visitImport(n)
			return false
		case "call_expression":
			if v.visitModuleCall(n) {
				return false
			}
		}
		return true
	})
	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "variable_declarator":
			v.visitDeclarator(n)
		case "assignment_expression":
			v.visitAssignment(n)
		case "formal_parameters":
			v.visitFixtureParams(n)
		}
		return true
	})

	v.removeBareDeclarations(root)

	walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "call_expression" && !v.covered(n) {
			v.visitCall(n)
		}
		return true
	})

	if v.needsImport && v.canonical == "" {
		v.insertCanonicalImport()
	}
	v.warnLeftovers(root)
}

// --- imports -------------------------------------------------------------

func (v *jsVisitor) noteImport(stmt *tree_sitter.Node, source *tree_sitter.Node) {
	if end, ok := lineRemainder(v.src, int(stmt.EndByte())); ok && end > v.importEnd {
		v.importEnd = end
	}
	if text := v.text(source); len(text) > 0 {
		v.quote = text[:1]
	}
	v.semicolon = strings.HasSuffix(strings.TrimSpace(v.text(stmt)), ";")
}

func (v *jsVisitor) retarget(source *tree_sitter.Node, module string) {
	q := v.text(source)[:1]
	v.replace(source, q+module+q)
}

func (v *jsVisitor) adoptFramework(m jsModule) {
	if m.Framework != types.FrameworkUnknown {
		v.framework = m.Framework
	}
}

func (v *jsVisitor) visitImport(n *tree_sitter.Node) {
	v.hasImports = true
	source := field(n, "source")
	mod, ok := v.rules.matchModule(unquote(v.text(source)))
	if !ok {
		return
	}
	v.noteImport(n, source)
	v.adoptFramework(mod)

	clause := findChildByType(n, "import_clause")
	switch mod.Style {
	case styleCypress:
		if clause == nil {
			v.retarget(source, cypressModule)
			return
		}
		for _, local := range clauseBindings(clause, v.src) {
			v.plugins[local] = true
			v.removed[local] = mod.Name + " plugin"
		}
		v.remove(n)
		v.warnf(n, "plugin import of %s removed: SmartUI Cypress needs only the support-file import of %s", mod.Name, cypressModule)

	case styleFunction:
		v.rewriteFunctionImport(n, clause, source, mod)

	case styleClass:
		v.replaceClassImport(n, clause, mod)
	}
}

// clauseBindings lists every local name an import clause introduces
func clauseBindings(clause *tree_sitter.Node, src []byte) []string {
	var out []string
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			out = append(out, nodeText(c, src))
		case "namespace_import":
			if id := findChildByType(c, "identifier"); id != nil {
				out = append(out, nodeText(id, src))
			}
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				local := field(spec, "alias")
				if local == nil {
					local = field(spec, "name")
				}
				out = append(out, nodeText(local, src))
			}
		}
	}
	return out
}

func (v *jsVisitor) rewriteFunctionImport(n, clause, source *tree_sitter.Node, mod jsModule) {
	target := jsDriverModule(v.framework)
	v.retarget(source, target)
	if clause == nil {
		return
	}

	named := findChildByType(clause, "named_imports")
	kept := 0
	total := 0
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			total++
			kept++
			local := v.text(c)
			v.functions[local] = local
			binding := aliasSpecifier(local, " as ")
			if named == nil {
				v.replace(c, "{ "+binding+" }")
			} else {
				v.removeListItem(c)
				if open := findChildByType(named, "{"); open != nil {
					v.insert(int(open.EndByte()), " "+binding+",")
				}
			}
			v.canonical = local
		case "namespace_import":
			total++
			kept++
			if id := findChildByType(c, "identifier"); id != nil {
				v.namespaces[v.text(id)] = mod
			}
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				total++
				if v.rewriteSpecifier(spec, field(spec, "name"), field(spec, "alias"), mod, " as ") {
					kept++
				}
			}
		}
	}
	if total > 0 && kept == 0 {
		v.remove(n)
	}
}

// aliasSpecifier is the canonical export bound to local
func aliasSpecifier(local, sep string) string {
	if local == jsSnapshotFunc {
		return jsSnapshotFunc
	}
	return jsSnapshotFunc + sep + local
}

// rewriteSpecifier handles one named import or destructured require entry. It
// reports whether the entry survives.
func (v *jsVisitor) rewriteSpecifier(spec, name, alias *tree_sitter.Node, mod jsModule, sep string) bool {
	exported := unquote(v.text(name))
	local := exported
	if alias != nil {
		local = v.text(alias)
	}

	switch {
	case v.rules.snapshotExports[exported]:
		callee := local
		if alias == nil {
			v.replace(spec, jsSnapshotFunc)
			callee = jsSnapshotFunc
		} else {
			v.replace(name, jsSnapshotFunc)
		}
		v.functions[local] = callee
		v.canonical = callee
		return true
	case v.rules.lifecycleExports[exported]:
		v.lifecycle[local] = true
		v.removed[local] = exported
		v.removeListItem(spec)
		return false
	default:
		v.warnf(spec, "%s has no SmartUI equivalent in %s; kept for manual review", exported, jsDriverModule(v.framework))
		return true
	}
}

// replaceClassImport swaps a class-style import for the canonical snapshot
// import. Later class-style imports are removed.
func (v *jsVisitor) replaceClassImport(n, clause *tree_sitter.Node, mod jsModule) {
	var reexports []string
	var names []string
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			v.namespaces[v.text(c)] = mod
			names = append(names, v.text(c))
		case "namespace_import":
			if id := findChildByType(c, "identifier"); id != nil {
				v.namespaces[v.text(id)] = mod
				names = append(names, v.text(id))
			}
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				exported := unquote(v.text(field(spec, "name")))
				local := exported
				if alias := field(spec, "alias"); alias != nil {
					local = v.text(alias)
				}
				if v.framework == types.FrameworkPlaywright && playwrightReexports[exported] {
					reexports = append(reexports, v.text(spec))
					continue
				}
				v.classes[local] = exported
				names = append(names, local)
			}
		}
	}
	for _, name := range names {
		v.removed[name] = mod.Name + " binding"
	}

	var text string
	if !v.classDone {
		v.classDone = true
		v.canonical = jsSnapshotFunc
		text = v.canonicalImport(true)
	}
	if len(reexports) > 0 {
		if text != "" {
			text += "\n" + lineIndent(v.src, int(n.StartByte()))
		}
		text += "import { " + strings.Join(reexports, ", ") + " } from " + v.quote + "@playwright/test" + v.quote + v.semi()
	}

	if text == "" {
		v.remove(n)
	} else {
		v.replace(n, text)
	}
	if len(names) > 0 {
		v.warnf(n, "import of %s replaced by %s; bindings %s removed", mod.Name, jsDriverModule(v.framework), strings.Join(names, ", "))
	}
}

func (v *jsVisitor) semi() string {
	if v.semicolon {
		return ";"
	}
	return ""
}

func (v *jsVisitor) canonicalImport(esm bool) string {
	q := v.quote
	mod := jsDriverModule(v.framework)
	if esm {
		return "import { " + jsSnapshotFunc + " } from " + q + mod + q + v.semi()
	}
	return "const { " + jsSnapshotFunc + " } = require(" + q + mod + q + ")" + v.semi()
}

// visitModuleCall handles require('mod') and import('mod'). It reports
// whether the call was a platform module load.
func (v *jsVisitor) visitModuleCall(call *tree_sitter.Node) bool {
	fn := field(call, "function")
	dynamic := nodeKind(fn) == "import"
	if !dynamic && (nodeKind(fn) != "identifier" || v.text(fn) != "require") {
		return false
	}
	if !dynamic {
		v.hasRequire = true
	}

	args := namedChildren(field(call, "arguments"))
	if len(args) == 0 || !isStringLiteral(args[0]) {
		return false
	}
	source := args[0]
	mod, ok := v.rules.matchModule(unquote(v.text(source)))
	if !ok {
		return false
	}
	v.adoptFramework(mod)
	if text := v.text(source); len(text) > 0 {
		v.quote = text[:1]
	}

	if dynamic {
		target := jsDriverModule(v.framework)
		if mod.Style == styleCypress {
			target = cypressModule
		}
		v.retarget(source, target)
		if mod.Style == styleClass {
			v.warnf(call, "dynamic import of %s retargeted to %s; its exports differ, review manually", mod.Name, target)
		}
		return true
	}

	stmt := enclosingStatement(call)
	if stmt != nil {
		v.noteImport(stmt, source)
	}
	p := parent(call)
	declarator := p
	if nodeKind(declarator) != "variable_declarator" {
		declarator = nil
	}

	switch mod.Style {
	case styleCypress:
		switch {
		case nodeKind(p) == "expression_statement":
			v.retarget(source, cypressModule)
		case declarator != nil:
			v.bindPatternNames(field(declarator, "name"), func(local string) {
				v.plugins[local] = true
				v.removed[local] = mod.Name + " plugin"
			})
			v.removeDeclarator(declarator)
			v.warnf(call, "plugin require of %s removed: SmartUI Cypress needs only the support-file import of %s", mod.Name, cypressModule)
		case nodeKind(p) == "call_expression" && sameNode(field(p, "function"), call):
			v.lifecycleCall(p, mod.Name+" plugin registration")
		default:
			v.retarget(source, cypressModule)
		}

	case styleFunction:
		v.retarget(source, jsDriverModule(v.framework))
		if declarator == nil {
			return true
		}
		name := field(declarator, "name")
		switch nodeKind(name) {
		case "identifier":
			local := v.text(name)
			v.functions[local] = local
			v.canonical = local
			v.replace(name, "{ "+aliasSpecifier(local, ": ")+" }")
		case "object_pattern":
			v.rewriteRequirePattern(declarator, name, mod)
		}

	case styleClass:
		if declarator == nil {
			v.warnf(call, "require of %s kept; review manually", mod.Name)
			return true
		}
		var names []string
		name := field(declarator, "name")
		if nodeKind(name) == "identifier" {
			v.namespaces[v.text(name)] = mod
			names = append(names, v.text(name))
		} else {
			for _, entry := range namedChildren(name) {
				local, exported := patternEntry(entry, v.src)
				if local == "" {
					continue
				}
				v.classes[local] = exported
				names = append(names, local)
			}
		}
		for _, n := range names {
			v.removed[n] = mod.Name + " binding"
		}
		target := enclosingStatement(declarator)
		if !v.classDone && target != nil {
			v.classDone = true
			v.canonical = jsSnapshotFunc
			v.replace(target, v.canonicalImport(false))
		} else {
			v.removeDeclarator(declarator)
		}
		v.warnf(call, "require of %s replaced by %s; bindings %s removed", mod.Name, jsDriverModule(v.framework), strings.Join(names, ", "))
	}
	return true
}

// patternEntry returns the local and exported names of an object pattern entry
func patternEntry(entry *tree_sitter.Node, src []byte) (local, exported string) {
	switch entry.Kind() {
	case "shorthand_property_identifier_pattern":
		name := nodeText(entry, src)
		return name, name
	case "pair_pattern":
		return nodeText(field(entry, "value"), src), unquote(nodeText(field(entry, "key"), src))
	}
	return "", ""
}

func (v *jsVisitor) bindPatternNames(pattern *tree_sitter.Node, bind func(string)) {
	if nodeKind(pattern) == "identifier" {
		bind(v.text(pattern))
		return
	}
	for _, entry := range namedChildren(pattern) {
		if local, _ := patternEntry(entry, v.src); local != "" {
			bind(local)
		}
	}
}

func (v *jsVisitor) rewriteRequirePattern(declarator, pattern *tree_sitter.Node, mod jsModule) {
	kept, total := 0, 0
	for _, entry := range namedChildren(pattern) {
		switch entry.Kind() {
		case "shorthand_property_identifier_pattern":
			total++
			if v.rewriteSpecifier(entry, entry, nil, mod, ": ") {
				kept++
			}
		case "pair_pattern":
			total++
			if v.rewriteSpecifier(entry, field(entry, "key"), field(entry, "value"), mod, ": ") {
				kept++
			}
		}
	}
	if total > 0 && kept == 0 {
		v.removeDeclarator(declarator)
	}
}

// removeDeclarator drops a declarator, or its whole declaration when it is the only one
func (v *jsVisitor) removeDeclarator(declarator *tree_sitter.Node) {
	decl := parent(declarator)
	count := 0
	for _, c := range namedChildren(decl) {
		if c.Kind() == "variable_declarator" {
			count++
		}
	}
	if count <= 1 {
		stmt := decl
		if nodeKind(parent(decl)) == "export_statement" {
			stmt = parent(decl)
		}
		v.remove(stmt)
		return
	}
	v.removeListItem(declarator)
}

// --- receivers -----------------------------------------------------------

// constructed reports whether value builds a platform object and whether that
// object is a snapshot client
func (v *jsVisitor) constructed(value *tree_sitter.Node) (string, bool, bool) {
	if nodeKind(value) == "await_expression" {
		value = namedChildren(value)[0]
	}
	switch nodeKind(value) {
	case "new_expression":
		ctor := field(value, "constructor")
		name, ok := v.classRef(ctor)
		if !ok {
			return "", false, false
		}
		return name, true, v.rules.clientClasses[name]
	case "call_expression":
		fn := field(value, "function")
		name, ok := v.classRef(fn)
		if !ok || !v.rules.clientFactories[name] {
			return "", false, false
		}
		return name, true, true
	}
	return "", false, false
}

// classRef resolves X or ns.X to the exported name of a platform binding
func (v *jsVisitor) classRef(n *tree_sitter.Node) (string, bool) {
	switch nodeKind(n) {
	case "identifier":
		exported, ok := v.classes[v.text(n)]
		return exported, ok
	case "member_expression":
		if mod, ok := v.namespaces[v.text(field(n, "object"))]; ok && mod.Style == styleClass {
			return v.text(field(n, "property")), true
		}
	}
	return "", false
}

// typeRef reports whether a TypeScript annotation names a removed class
func (v *jsVisitor) typeRef(annotation *tree_sitter.Node) (string, bool) {
	var found string
	walk(annotation, func(n *tree_sitter.Node) bool {
		if found != "" {
			return false
		}
		if n.Kind() == "type_identifier" || n.Kind() == "identifier" {
			if exported, ok := v.classes[v.text(n)]; ok {
				found = exported
			}
		}
		return true
	})
	return found, found != ""
}

func (v *jsVisitor) visitDeclarator(n *tree_sitter.Node) {
	name := field(n, "name")
	if nodeKind(name) != "identifier" {
		return
	}
	value := field(n, "value")
	exported, ok, client := v.constructed(value)
	if !ok && value == nil {
		if annotation := findChildByType(n, "type_annotation"); annotation != nil {
			exported, ok = v.typeRef(annotation)
			client = v.rules.clientClasses[exported]
		}
	}
	if !ok {
		return
	}
	local := v.text(name)
	v.track(local, exported, client, value)
	v.removeDeclarator(n)
	v.warnf(n, "%s %s removed", exported, local)
}

func (v *jsVisitor) visitAssignment(n *tree_sitter.Node) {
	exported, ok, client := v.constructed(field(n, "right"))
	if !ok {
		return
	}
	local := v.text(field(n, "left"))
	v.track(local, exported, client, field(n, "right"))
	if stmt := parent(n); nodeKind(stmt) == "expression_statement" {
		v.remove(stmt)
		v.warnf(n, "%s %s removed", exported, local)
		return
	}
	v.warnf(n, "construction of %s kept: it is not a standalone statement, review manually", exported)
}

func (v *jsVisitor) track(local, exported string, client bool, value *tree_sitter.Node) {
	v.receivers[local] = client
	v.removed[local] = exported + " instance"
	if nodeKind(value) == "new_expression" && exported != "Eyes" {
		if args := namedChildren(field(value, "arguments")); len(args) > 0 && nodeKind(args[0]) == "identifier" {
			v.drivers[local] = v.text(args[0])
		}
	}
}

// removeBareDeclarations drops `let eyes;` style declarations of receivers
// that are assigned later
func (v *jsVisitor) removeBareDeclarations(root *tree_sitter.Node) {
	walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() != "variable_declarator" || field(n, "value") != nil || v.covered(n) {
			return true
		}
		if _, ok := v.receivers[v.text(field(n, "name"))]; ok {
			v.removeDeclarator(n)
		}
		return false
	})
}

// visitFixtureParams picks up the eyes fixture of the Applitools Playwright
// fixture module: test('x', async ({ page, eyes }) => ...)
func (v *jsVisitor) visitFixtureParams(n *tree_sitter.Node) {
	if v.rules.platform != types.PlatformApplitools || !v.classDone {
		return
	}
	for _, param := range namedChildren(n) {
		pattern := param
		if param.Kind() == "required_parameter" {
			pattern = field(param, "pattern")
		}
		if nodeKind(pattern) != "object_pattern" {
			continue
		}
		for _, entry := range namedChildren(pattern) {
			if entry.Kind() == "shorthand_property_identifier_pattern" && v.text(entry) == "eyes" {
				v.receivers["eyes"] = true
				v.removeListItem(entry)
			}
		}
	}
}

// --- calls ---------------------------------------------------------------

type jsSnapshot struct {
	call    *tree_sitter.Node
	callee  string
	driver  string
	name    string
	options []*tree_sitter.Node // options object candidates in priority order
	chain   []chainCall
	element string
}

func (v *jsVisitor) visitCall(call *tree_sitter.Node) {
	fn := field(call, "function")
	args := namedChildren(field(call, "arguments"))

	switch nodeKind(fn) {
	case "identifier":
		name := v.text(fn)
		callee, isSnapshot := v.functions[name]
		switch {
		case isSnapshot:
			v.functionSnapshot(call, callee, args)
		case v.lifecycle[name]:
			v.lifecycleCall(call, name)
		case v.plugins[name]:
			v.pluginCall(call, name, args)
		}

	case "member_expression":
		object := field(fn, "object")
		objText := v.text(object)
		method := v.text(field(fn, "property"))

		if objText == "cy" {
			v.cypressCommand(call, method, args)
			return
		}
		if _, ok := v.namespaces[objText]; ok {
			switch {
			case v.rules.snapshotExports[method]:
				v.functionSnapshot(call, objText+"."+jsSnapshotFunc, args)
			case v.rules.lifecycleExports[method]:
				v.lifecycleCall(call, objText+"."+method)
			}
			return
		}
		if client, ok := v.receivers[objText]; ok {
			v.receiverCall(call, objText, method, client, args)
			return
		}
		if _, ok := v.classes[objText]; ok || v.plugins[objText] {
			if nodeKind(parent(call)) != "member_expression" {
				v.lifecycleCall(call, objText+"."+method)
			}
			return
		}
		// WebdriverIO service command: browser.sauceVisualCheck(name, options)
		if objText == "browser" && v.rules.snapshotExports[method] && v.framework == types.FrameworkWebdriverIO {
			v.needsImport = true
			snap := jsSnapshot{call: call, driver: "browser"}
			rest := args
			if len(rest) > 0 && nodeKind(rest[0]) != "object" {
				snap.name = v.text(rest[0])
				rest = rest[1:]
			}
			snap.options = rest
			v.emitSnapshot(snap)
		}
	}
}

// nameLike reports whether an argument reads as a snapshot name rather than a driver
func nameLike(n *tree_sitter.Node) bool {
	switch nodeKind(n) {
	case "string", "template_string", "binary_expression":
		return true
	}
	return false
}

func (v *jsVisitor) functionSnapshot(call *tree_sitter.Node, callee string, args []*tree_sitter.Node) {
	snap := jsSnapshot{call: call, callee: callee, driver: defaultDriver(v.framework)}
	rest := args
	if len(rest) > 0 && !nameLike(rest[0]) && nodeKind(rest[0]) != "object" {
		snap.driver = v.text(rest[0])
		rest = rest[1:]
		// sauceVisualCheck(page, testInfo, name, options)
		if v.rules.platform == types.PlatformSauceLabs && len(rest) >= 2 && !nameLike(rest[0]) {
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && nodeKind(rest[0]) != "object" {
		snap.name = v.text(rest[0])
		rest = rest[1:]
	}
	snap.options = rest
	v.emitSnapshot(snap)
}

func (v *jsVisitor) cypressCommand(call *tree_sitter.Node, method string, args []*tree_sitter.Node) {
	switch {
	case v.rules.cypressSnapshot[method]:
		snap := jsSnapshot{call: call, callee: "cy." + jsSnapshotFunc, driver: "cy"}
		rest := args
		if len(rest) > 0 && nodeKind(rest[0]) != "object" {
			snap.name = v.text(rest[0])
			rest = rest[1:]
		}
		snap.options = rest
		v.emitSnapshot(snap)
	case v.rules.cypressLifecycle(method):
		v.lifecycleCall(call, "cy."+method)
	}
}

func (v *jsVisitor) receiverCall(call *tree_sitter.Node, recv, method string, client bool, args []*tree_sitter.Node) {
	if !client {
		v.lifecycleCall(call, recv+"."+method)
		return
	}
	switch {
	case v.rules.openMethods[method]:
		if len(args) > 0 {
			v.drivers[recv] = v.text(args[0])
		}
		if stmt := wholeStatement(call); stmt != nil || len(args) == 0 {
			v.lifecycleCall(call, recv+"."+method)
			return
		}
		// driver = await eyes.open(driver, ...) keeps working with the bare driver
		v.replace(call, v.text(args[0]))
		v.warnf(call, "%s.%s replaced by its driver argument", recv, method)

	case v.rules.snapshotMethods[method]:
		v.needsImport = true
		driver := v.drivers[recv]
		if driver == "" {
			driver = defaultDriver(v.framework)
		}
		snap := jsSnapshot{call: call, driver: driver}
		rest := args
		if strings.HasPrefix(method, "checkRegion") || strings.HasPrefix(method, "checkElement") {
			if len(rest) > 0 {
				snap.element = v.text(rest[0])
				rest = rest[1:]
			}
		}
		if len(rest) > 0 && nameLike(rest[0]) {
			snap.name = v.text(rest[0])
			rest = rest[1:]
		}
		if len(rest) > 0 {
			if chain, ok := v.targetChain(rest[0]); ok {
				snap.chain = chain
				rest = rest[1:]
			}
		}
		if method == "checkWindow" && len(rest) > 0 && nodeKind(rest[0]) != "object" {
			for _, extra := range rest {
				v.warnf(extra, "checkWindow argument %s dropped", v.text(extra))
			}
			rest = nil
		}
		snap.options = rest
		v.emitSnapshot(snap)

	default:
		v.lifecycleCall(call, recv+"."+method)
	}
}

// targetChain unwinds Target.window().fully()... into its links
func (v *jsVisitor) targetChain(n *tree_sitter.Node) ([]chainCall, bool) {
	var calls []chainCall
	cur := n
	for nodeKind(cur) == "call_expression" {
		fn := field(cur, "function")
		if nodeKind(fn) != "member_expression" {
			return nil, false
		}
		calls = append(calls, chainCall{
			Name: v.text(field(fn, "property")),
			Args: namedChildren(field(cur, "arguments")),
			Node: cur,
		})
		cur = field(fn, "object")
	}
	exported, ok := v.classRef(cur)
	if !ok || exported != "Target" || len(calls) == 0 {
		return nil, false
	}
	for i, j := 0, len(calls)-1; i < j; i, j = i+1, j-1 {
		calls[i], calls[j] = calls[j], calls[i]
	}
	return calls, true
}

func (v *jsVisitor) lifecycleCall(call *tree_sitter.Node, what string) {
	if stmt := wholeStatement(call); stmt != nil {
		v.remove(stmt)
		v.warnf(call, "%s removed: SmartUI has no equivalent", what)
		return
	}
	v.warnf(call, "%s kept: it is not a standalone statement, review manually", what)
}

// pluginCall unwraps plugin wrappers such as eyesPlugin(defineConfig({...}))
func (v *jsVisitor) pluginCall(call *tree_sitter.Node, name string, args []*tree_sitter.Node) {
	if wholeStatement(call) != nil || len(args) == 0 {
		v.lifecycleCall(call, name)
		return
	}
	v.replace(call, v.text(args[0]))
	v.warnf(call, "%s wrapper removed", name)
}

// emitSnapshot rewrites one snapshot call to the SmartUI form
func (v *jsVisitor) emitSnapshot(s jsSnapshot) {
	opts := v.rewriter.mapTargetChain(s.chain, v.selectorOf, "true")
	var raw, rawLead []string
	for _, candidate := range s.options {
		if nodeKind(candidate) == "object" {
			mapped := v.mapOptions(v.rules.options, v.objectEntries(candidate, &opts))
			opts = mergeOptions(opts, mapped)
			continue
		}
		if chain, ok := v.targetChain(candidate); ok {
			opts = mergeOptions(opts, v.rewriter.mapTargetChain(chain, v.selectorOf, "true"))
			continue
		}
		if opts.empty() {
			rawLead = append(rawLead, v.text(candidate))
		}
		raw = append(raw, v.text(candidate))
		v.warnf(candidate, "options %s passed by reference kept verbatim; check the keys against SmartUI manually", v.text(candidate))
	}
	if s.element != "" {
		opts.Element = s.element
	}

	cypress := s.driver == "cy"
	name := s.name
	if name == "" {
		name = opts.Name
	}
	name = v.snapshotName(s.call, name, func(line int) string {
		if cypress {
			return "Cypress.currentTest.title"
		}
		return v.quote + "snapshot-" + strconv.Itoa(line) + v.quote
	})

	callee := s.callee
	if callee == "" {
		callee = v.canonical
		if callee == "" {
			callee = jsSnapshotFunc
		}
	}

	argList := []string{}
	if !cypress {
		argList = append(argList, s.driver)
	}
	argList = append(argList, name)
	switch {
	case !opts.empty():
		opts.Leading = append(spreadAll(rawLead), opts.Leading...)
		opts.Extra = append(opts.Extra, spreadAll(raw[len(rawLead):])...)
		argList = append(argList, opts.renderJS())
	case len(raw) == 1:
		argList = append(argList, raw[0])
	case len(raw) > 1:
		argList = append(argList, "{ "+strings.Join(spreadAll(raw), ", ")+" }")
	}

	v.replace(s.call, callee+"("+strings.Join(argList, ", ")+")")
	v.snapshots++

	if opts.Layout {
		v.emulateLayout(s.call, LayoutIntent{
			Language:  v.lang,
			Framework: v.framework,
			Driver:    s.driver,
			Selector:  opts.Element,
		})
	}
}

func spreadAll(exprs []string) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = "..." + e
	}
	return out
}

// mergeOptions overlays b onto a
func mergeOptions(a, b smartOptions) smartOptions {
	if b.FullPage != "" {
		a.FullPage = b.FullPage
	}
	if b.CustomCSS != "" {
		a.CustomCSS = b.CustomCSS
	}
	if b.Element != "" {
		a.Element = b.Element
	}
	a.Ignore = append(a.Ignore, b.Ignore...)
	if b.IgnoreRaw != "" {
		if a.IgnoreRaw != "" {
			a.Ignore = append(a.Ignore, b.IgnoreRaw)
		} else {
			a.IgnoreRaw = b.IgnoreRaw
		}
	}
	a.Leading = append(a.Leading, b.Leading...)
	a.Extra = append(a.Extra, b.Extra...)
	if b.Name != "" {
		a.Name = b.Name
	}
	a.Layout = a.Layout || b.Layout
	return a
}

// objectEntries flattens an options object literal. Spreads and computed keys
// are carried verbatim with a warning. Those written before the first plain
// key go to opts.Leading so they still come first in the output.
func (v *jsVisitor) objectEntries(obj *tree_sitter.Node, opts *smartOptions) []optionEntry {
	var entries []optionEntry
	keep := func(text string) {
		if len(entries) == 0 {
			opts.Leading = append(opts.Leading, text)
		} else {
			opts.Extra = append(opts.Extra, text)
		}
	}
	for _, c := range namedChildren(obj) {
		switch c.Kind() {
		case "pair":
			key := field(c, "key")
			if nodeKind(key) == "computed_property_name" {
				keep(v.text(c))
				v.warnf(c, "computed option %s kept verbatim; review manually", v.text(key))
				continue
			}
			value := field(c, "value")
			entries = append(entries, optionEntry{
				Key:   unquote(v.text(key)),
				Text:  v.text(value),
				Node:  c,
				Items: v.arrayItems(value),
			})
		case "shorthand_property_identifier":
			entries = append(entries, optionEntry{Key: v.text(c), Text: v.text(c), Node: c})
		case "spread_element":
			keep(v.text(c))
			v.warnf(c, "spread options %s kept verbatim; check the keys against SmartUI manually", v.text(c))
		default:
			v.warnf(c, "option %s dropped: not a plain property", v.text(c))
		}
	}
	return entries
}

func (v *jsVisitor) arrayItems(n *tree_sitter.Node) []string {
	if nodeKind(n) != "array" {
		return nil
	}
	items := []string{}
	for _, c := range namedChildren(n) {
		items = append(items, v.text(c))
	}
	return items
}

// selectorOf extracts a CSS selector from region()/ignore() arguments
func (v *jsVisitor) selectorOf(args []*tree_sitter.Node) string {
	if len(args) == 0 {
		return ""
	}
	a := args[0]
	switch nodeKind(a) {
	case "string", "template_string", "identifier", "member_expression":
		return v.text(a)
	case "object":
		// { selector: '.x' } / { type: 'css', selector: '.x' }
		for _, c := range namedChildren(a) {
			if c.Kind() == "pair" && unquote(v.text(field(c, "key"))) == "selector" {
				return v.text(field(c, "value"))
			}
		}
	case "call_expression":
		// By.css('.x')
		fn := field(a, "function")
		if nodeKind(fn) == "member_expression" && strings.HasPrefix(v.text(field(fn, "property")), "css") {
			if inner := namedChildren(field(a, "arguments")); len(inner) > 0 {
				return v.text(inner[0])
			}
		}
	}
	return ""
}

// insertCanonicalImport adds the snapshot import when calls were rewritten
// but no import binds the canonical name
func (v *jsVisitor) insertCanonicalImport() {
	esm := v.hasImports || !v.hasRequire
	if v.ext == ".cjs" {
		esm = false
	}
	v.insert(v.importEnd, v.canonicalImport(esm)+"\n")
	v.canonical = jsSnapshotFunc
}

// warnLeftovers reports references to removed bindings that no rewrite consumed
func (v *jsVisitor) warnLeftovers(root *tree_sitter.Node) {
	if len(v.removed) == 0 {
		return
	}
	counts := make(map[string]int)
	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "identifier", "type_identifier", "member_expression":
			text := v.text(n)
			if _, ok := v.removed[text]; ok && !v.covered(n) {
				counts[text]++
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
			Message: v.path + ": " + strconv.Itoa(counts[name]) + " reference(s) to removed " + v.removed[name] + " " + name + " remain; review manually",
		})
	}
}
