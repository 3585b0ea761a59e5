// Package transform rewrites visual-test sources from Percy, Applitools and
// Sauce Labs Visual to LambdaTest SmartUI. Rewrites are structural: each file
// is parsed with tree-sitter, visitors turn the tree into byte-range edits,
// and the edits are spliced into the original text so that everything they
// do not touch survives byte for byte.
package transform

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// grammar selects the tree-sitter language for a file
type grammar int

const (
	grammarNone grammar = iota
	grammarJavaScript
	grammarTypeScript
	grammarTSX
	grammarJava
	grammarPython
)

var grammarsByExt = map[string]grammar{
	".js":   grammarJavaScript,
	".jsx":  grammarJavaScript,
	".mjs":  grammarJavaScript,
	".cjs":  grammarJavaScript,
	".ts":   grammarTypeScript,
	".mts":  grammarTypeScript,
	".cts":  grammarTypeScript,
	".tsx":  grammarTSX,
	".java": grammarJava,
	".py":   grammarPython,
}

func grammarFor(path string) grammar {
	return grammarsByExt[strings.ToLower(filepath.Ext(path))]
}

func (g grammar) language() types.Language {
	switch g {
	case grammarJavaScript:
		return types.LanguageJavaScript
	case grammarTypeScript, grammarTSX:
		return types.LanguageTypeScript
	case grammarJava:
		return types.LanguageJava
	case grammarPython:
		return types.LanguagePython
	}
	return types.LanguageUnknown
}

// family folds TypeScript into JavaScript: TypeScript projects carry .js files
func family(lang types.Language) types.Language {
	if lang == types.LanguageTypeScript {
		return types.LanguageJavaScript
	}
	return lang
}

// parserPoolData holds reusable parsers for one grammar
type parserPoolData struct {
	pool     sync.Pool
	once     sync.Once
	language func() unsafe.Pointer
}

// Per-grammar pools so concurrent transforms never share a parser
var parserPools = map[grammar]*parserPoolData{
	grammarJavaScript: {language: tree_sitter_javascript.Language},
	grammarTypeScript: {language: tree_sitter_typescript.LanguageTypescript},
	grammarTSX:        {language: tree_sitter_typescript.LanguageTSX},
	grammarJava:       {language: tree_sitter_java.Language},
	grammarPython:     {language: tree_sitter_python.Language},
}

func getParser(g grammar) (*tree_sitter.Parser, error) {
	data := parserPools[g]
	data.once.Do(func() {
		data.pool.New = func() any {
			parser := tree_sitter.NewParser()
			if err := parser.SetLanguage(tree_sitter.NewLanguage(data.language())); err != nil {
				parser.Close()
				return err
			}
			return parser
		}
	})

	switch v := data.pool.Get().(type) {
	case *tree_sitter.Parser:
		return v, nil
	case error:
		return nil, v
	}
	return nil, fmt.Errorf("parser pool returned an unexpected value")
}

func putParser(g grammar, parser *tree_sitter.Parser) {
	parser.Reset()
	parserPools[g].pool.Put(parser)
}

// Request is one file to transform
type Request struct {
	Platform  types.Platform
	Framework types.Framework
	Language  types.Language
	Path      string // used for grammar selection and warning locations
	Source    string
}

// Engine transforms source files. It is safe for concurrent use.
type Engine struct {
	tables *signatures.Tables
}

// New creates an engine over the given signature tables; nil selects the
// embedded defaults
func New(tables *signatures.Tables) *Engine {
	if tables == nil {
		tables = signatures.Default()
	}
	return &Engine{tables: tables}
}

// Transform rewrites one file. It never fails: unknown file types and
// unsupported platform/language pairs are silent no-ops, and parse problems
// leave the content unchanged with a warning.
func (e *Engine) Transform(req Request) types.TransformationResult {
	g := grammarFor(req.Path)
	if g == grammarNone {
		return types.Unchanged(req.Source)
	}

	lang := g.language()
	if req.Language != types.LanguageUnknown && family(req.Language) != family(lang) {
		debug.LogTransform("%s: requested %s but the extension says %s, using the extension", req.Path, req.Language, lang)
	}

	rules := rulesFor(req.Platform, e.tables)
	if rules == nil {
		return types.Unchanged(req.Source)
	}
	if !Supported(req.Platform, lang) {
		debug.LogTransform("%s: %s has no %s rewrite, skipping", req.Path, req.Platform.DisplayName(), lang)
		return types.Unchanged(req.Source)
	}

	src := []byte(req.Source)
	parser, err := getParser(g)
	if err != nil {
		return failed(req, fmt.Sprintf("%s: parser unavailable: %v; file left unchanged", req.Path, err))
	}
	tree := parser.Parse(src, nil)
	putParser(g, parser)
	if tree == nil {
		return failed(req, fmt.Sprintf("%s: parse failed; file left unchanged", req.Path))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col := 1, 1
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			line, col = int(pos.Row)+1, int(pos.Column)+1
		}
		return failed(req, fmt.Sprintf("%s:%d:%d: syntax error; file left unchanged", req.Path, line, col))
	}

	framework := req.Framework
	if framework == types.FrameworkUnknown {
		framework = e.tables.Fallback
	}

	r := newRewriter(req.Path, src)
	switch lang {
	case types.LanguageJavaScript, types.LanguageTypeScript:
		newJSVisitor(r, rules, framework, lang, req.Path).visit(root)
	case types.LanguageJava:
		newJavaVisitor(r, rules, framework).visit(root)
	case types.LanguagePython:
		newPythonVisitor(r, rules, framework).visit(root)
	}

	res := r.result(req.Source)
	debug.LogTransform("%s: %d edits, %d snapshots, %d warnings", req.Path, len(r.edits), res.SnapshotCount, len(res.Warnings))
	return res
}

func failed(req Request, message string) types.TransformationResult {
	res := types.Unchanged(req.Source)
	res.Warnings = append(res.Warnings, types.Warning{Message: message})
	return res
}
