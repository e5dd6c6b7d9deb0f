package sections

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Symbol kinds produced by Containers and Outline.
const (
	KindSection   = "section"
	KindFunction  = "function"
	KindClass     = "class"
	KindStruct    = "struct"
	KindUnion     = "union"
	KindEnum      = "enum"
	KindInterface = "interface"
	KindType      = "type"
	KindImpl      = "impl"
	KindNamespace = "namespace"
	KindModule    = "module"

	KindConstant    = "constant"
	KindVariable    = "variable"
	KindTypeAlias   = "type_alias"
	KindDeclaration = "declaration"
)

// containerKinds maps tree-sitter node types across the supported grammars
// to outline kinds.
var containerKinds = map[string]string{
	"function_declaration":    KindFunction,
	"function_definition":     KindFunction,
	"function_item":           KindFunction,
	"method_declaration":      KindFunction,
	"method_definition":       KindFunction,
	"constructor_declaration": KindFunction,
	"method":                  KindFunction,
	"singleton_method":        KindFunction,

	"class_definition":  KindClass,
	"class_declaration": KindClass,
	"class_specifier":   KindClass,
	"class":             KindClass,

	"struct_specifier": KindStruct,
	"struct_item":      KindStruct,
	"union_specifier":  KindUnion,

	"enum_specifier":   KindEnum,
	"enum_item":        KindEnum,
	"enum_declaration": KindEnum,

	"interface_declaration": KindInterface,
	"trait_item":            KindInterface,

	"type_spec": KindType,
	"impl_item": KindImpl,

	"namespace_definition": KindNamespace,
	"mod_item":             KindModule,
	"module":               KindModule,

	"preproc_def":          KindConstant,
	"preproc_function_def": KindConstant,
	"alias_declaration":    KindTypeAlias,
}

// passThrough lists node types whose children still count as top level:
// the root and preprocessor conditionals wrapping it.
var passThrough = map[string]bool{
	"translation_unit": true,
	"preproc_ifdef":    true,
	"preproc_if":       true,
	"preproc_else":     true,
	"preproc_elif":     true,
	"preproc_elifdef":  true,
}

// bodyRequired lists kinds whose node types double as plain type
// references (e.g. "struct Point p;" in C) and only count with a body.
var bodyRequired = map[string]bool{
	"struct_specifier": true,
	"union_specifier":  true,
	"enum_specifier":   true,
	"class_specifier":  true,
}

// Containers parses src with the grammar for language and returns every
// declaration that opens a block (functions, classes, structs, enums,
// interfaces, namespaces, modules), nested ones included, plus macros,
// type aliases, and top-level variables and function prototypes, in source
// order. Subtrees the parser could not make sense of are skipped.
//
// C files whose tree has errors are parsed again as C++, so that C++
// sections guarded by #ifdef __cplusplus still yield namespaces and classes.
func Containers(ctx context.Context, src []byte, language string) ([]*Symbol, error) {
	tree, err := parseTree(ctx, src, language)
	if err != nil {
		return nil, err
	}
	if language == "c" && tree.RootNode().HasError() {
		if cpp, err := parseTree(ctx, src, "cpp"); err == nil {
			if cpp.RootNode().HasError() {
				cpp.Close()
			} else {
				tree.Close()
				tree = cpp
			}
		}
	}
	defer tree.Close()

	lines := SplitLines(string(src))
	var out []*Symbol
	walk(tree.RootNode(), true, func(n *sitter.Node, top bool) {
		if sym := containerSymbol(n, top, src, lines); sym != nil {
			out = append(out, sym)
		}
	})
	return out, nil
}

func parseTree(ctx context.Context, src []byte, language string) (*sitter.Tree, error) {
	lang, ok := GrammarForLanguage(language)
	if !ok {
		return nil, fmt.Errorf("sections: unsupported language %q", language)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("sections: parse %s: %w", language, err)
	}
	return tree, nil
}

// walk visits n's named descendants in source order. top reports whether a
// node sits directly at file scope, looking through preprocessor
// conditionals. ERROR subtrees are not entered.
func walk(n *sitter.Node, top bool, visit func(n *sitter.Node, top bool)) {
	childTop := top && passThrough[n.Type()]
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "ERROR" {
			continue
		}
		visit(child, childTop)
		walk(child, childTop, visit)
	}
}

func containerSymbol(n *sitter.Node, top bool, src []byte, lines []string) *Symbol {
	if n.Type() == "declaration" {
		if !top {
			return nil
		}
		return declarationSymbol(n, src, lines)
	}

	kind, ok := containerKinds[n.Type()]
	if !ok {
		return nil
	}
	if bodyRequired[n.Type()] && n.ChildByFieldName("body") == nil {
		return nil
	}
	if kind == KindConstant || kind == KindTypeAlias {
		return lineSymbol(n, n.ChildByFieldName("name"), kind, src, lines)
	}

	name := nodeName(n, src)
	if kind == KindFunction {
		if params := paramsText(n, src); params != "" {
			name += params
		}
	}
	if name == "" {
		name = kind
		if p := n.Parent(); p != nil && p.Type() == "type_definition" {
			name = "typedef " + kind
		}
	}

	start := n.StartPoint()
	return &Symbol{
		Name:  name,
		Kind:  kind,
		Range: nodeRange(n, lines),
		Selection: Range{
			StartLine: int(start.Row), StartCol: int(start.Column),
			EndLine: int(start.Row), EndCol: int(start.Column) + len(firstLine(n.Content(src))),
		},
	}
}

// declarationSymbol handles a file-scope C/C++ declaration: a function
// prototype when its declarator chain holds a function_declarator,
// otherwise a variable named by its first declarator.
func declarationSymbol(n *sitter.Node, src []byte, lines []string) *Symbol {
	d := n.ChildByFieldName("declarator")
	if d == nil {
		return nil
	}

	kind := KindVariable
	for c := d; c != nil; c = c.ChildByFieldName("declarator") {
		if c.Type() == "function_declarator" {
			kind = KindDeclaration
			break
		}
	}

	nameNode := d
	for nameNode != nil && !identifierTypes[nameNode.Type()] {
		nameNode = nameNode.ChildByFieldName("declarator")
	}
	if nameNode == nil {
		return nil
	}

	sym := lineSymbol(n, nameNode, kind, src, lines)
	if kind == KindDeclaration {
		sym.Name += paramsText(n, src)
	}
	return sym
}

// lineSymbol builds a symbol spanning n's lines in full, selecting nameNode.
func lineSymbol(n, nameNode *sitter.Node, kind string, src []byte, lines []string) *Symbol {
	if nameNode == nil {
		return nil
	}
	r := nodeRange(n, lines)
	r.StartCol = 0
	r.EndCol = lineLen(lines, r.EndLine)

	ns, ne := nameNode.StartPoint(), nameNode.EndPoint()
	return &Symbol{
		Name:  nameNode.Content(src),
		Kind:  kind,
		Range: r,
		Selection: Range{
			StartLine: int(ns.Row), StartCol: int(ns.Column),
			EndLine: int(ne.Row), EndCol: int(ne.Column),
		},
	}
}

// nodeRange is n's extent. Nodes that swallow their line terminator (macro
// definitions do) end on the line they close instead of column 0 of the
// next.
func nodeRange(n *sitter.Node, lines []string) Range {
	start, end := n.StartPoint(), n.EndPoint()
	r := Range{
		StartLine: int(start.Row), StartCol: int(start.Column),
		EndLine: int(end.Row), EndCol: int(end.Column),
	}
	if r.EndCol == 0 && r.EndLine > r.StartLine {
		r.EndLine--
		r.EndCol = lineLen(lines, r.EndLine)
	}
	return r
}

func lineLen(lines []string, n int) int {
	if n < 0 || n >= len(lines) {
		return 0
	}
	return len(lines[n])
}

var identifierTypes = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"type_identifier":      true,
	"qualified_identifier": true,
	"destructor_name":      true,
	"operator_name":        true,
	"constant":             true,
	"name":                 true,
}

// nodeName finds a declaration's name through its "name" field, a C-style
// declarator chain, or (for Rust impls) its "type" field.
func nodeName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	for d := n.ChildByFieldName("declarator"); d != nil; d = d.ChildByFieldName("declarator") {
		if identifierTypes[d.Type()] {
			return d.Content(src)
		}
	}
	if t := n.ChildByFieldName("type"); t != nil {
		return t.Content(src)
	}
	return ""
}

// paramsText returns the parenthesized parameter list of a function node
// with whitespace collapsed, or "" if none is found.
func paramsText(n *sitter.Node, src []byte) string {
	p := n.ChildByFieldName("parameters")
	for d := n.ChildByFieldName("declarator"); p == nil && d != nil; d = d.ChildByFieldName("declarator") {
		p = d.ChildByFieldName("parameters")
	}
	if p == nil {
		return ""
	}
	return strings.Join(strings.Fields(p.Content(src)), " ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], "\r")
	}
	return s
}
