// Package treesitter adapts tree-sitter syntax trees for JavaScript,
// TypeScript and TSX to the mutation engine.
//
// Selector segments are tree-sitter field names ("function", "arguments"),
// integer indexes into a node's named children, and a few helpers:
//
//	children        all named children
//	kind, text      the node type and source text as scalars
//	dot, colon, ... anonymous punctuation and keyword tokens as ranges
//	<key>_property  the pair with the given key in an object literal
//	<key>_value     the value of that pair
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/yaklabco/nodemutation/pkg/adapter"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
)

// ErrSyntax is returned when the source contains syntax errors.
var ErrSyntax = errors.New("syntax error")

// Language identifies a grammar.
type Language int

const (
	// JavaScript selects the JavaScript grammar (JSX included).
	JavaScript Language = iota + 1
	// TypeScript selects the TypeScript grammar.
	TypeScript
	// TSX selects the TypeScript grammar with JSX.
	TSX
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case JavaScript:
		return "javascript"
	case TypeScript:
		return "typescript"
	case TSX:
		return "tsx"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

func (l Language) grammar() (unsafe.Pointer, error) {
	switch l {
	case JavaScript:
		return tree_sitter_javascript.Language(), nil
	case TypeScript:
		return tree_sitter_typescript.LanguageTypescript(), nil
	case TSX:
		return tree_sitter_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", l)
	}
}

//nolint:gochecknoglobals // Pseudo-child names mapped to their token text.
var tokenNames = map[string]string{
	"dot":       ".",
	"colon":     ":",
	"semicolon": ";",
	"comma":     ",",
	"class":     "class",
	"async":     "async",
	"static":    "static",
	"arrow":     "=>",
}

// File is a parsed source file and its adapter. Close releases the tree.
type File struct {
	*adapter.Base[*tree_sitter.Node]

	tree *tree_sitter.Tree
	lang Language
}

var _ mutation.Adapter[*tree_sitter.Node] = (*File)(nil)

// Parse parses src with the given grammar. Sources containing syntax errors
// are rejected.
func Parse(ctx context.Context, src []byte, lang Language) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grammar, err := lang.grammar()
	if err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tree_sitter.NewLanguage(grammar)); err != nil {
		return nil, fmt.Errorf("setting language: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", lang)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("parse %s: nil root node", lang)
	}
	if root.HasError() {
		tree.Close()
		return nil, fmt.Errorf("parse %s: %w", lang, ErrSyntax)
	}

	return &File{
		Base: adapter.NewBase[*tree_sitter.Node](string(src), resolver{src: src}),
		tree: tree,
		lang: lang,
	}, nil
}

// Root returns the root node of the tree.
func (f *File) Root() *tree_sitter.Node {
	return f.tree.RootNode()
}

// Language returns the grammar the file was parsed with.
func (f *File) Language() Language {
	return f.lang
}

// Close releases the syntax tree. Nodes obtained from f must not be used
// afterwards.
func (f *File) Close() {
	f.tree.Close()
}

// unfieldedExpression lists node kinds whose wrapped expression the
// grammars expose as a plain named child rather than an "expression" field.
//
//nolint:gochecknoglobals // Read-only lookup table.
var unfieldedExpression = map[string]bool{
	"expression_statement":     true,
	"parenthesized_expression": true,
}

// firstNamedChild skips comments.
func firstNamedChild(n *tree_sitter.Node) *tree_sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

type resolver struct {
	src []byte
}

func (r resolver) NodeRange(n *tree_sitter.Node) mutation.Range {
	return mutation.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (r resolver) text(n *tree_sitter.Node) string {
	return string(r.src[n.StartByte():n.EndByte()])
}

func (r resolver) Field(n *tree_sitter.Node, name string) (selector.Value[*tree_sitter.Node], bool) {
	switch name {
	case "kind":
		return selector.ScalarValue[*tree_sitter.Node](n.Kind()), true
	case "text":
		return selector.ScalarValue[*tree_sitter.Node](r.text(n)), true
	case "children":
		return selector.NodesValue(namedChildren(n)), true
	}

	if child := n.ChildByFieldName(name); child != nil {
		return selector.NodeValue(child), true
	}
	if name == "expression" && unfieldedExpression[n.Kind()] {
		if child := firstNamedChild(n); child != nil {
			return selector.NodeValue(child), true
		}
	}

	if key, ok := strings.CutSuffix(name, "_property"); ok {
		if pair := r.pair(n, key); pair != nil {
			return selector.NodeValue(pair), true
		}
	}
	if key, ok := strings.CutSuffix(name, "_value"); ok {
		if pair := r.pair(n, key); pair != nil {
			if value := pair.ChildByFieldName("value"); value != nil {
				return selector.NodeValue(value), true
			}
		}
	}
	return selector.Value[*tree_sitter.Node]{}, false
}

// pair finds the key/value pair named key in an object literal.
func (r resolver) pair(n *tree_sitter.Node, key string) *tree_sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Kind() != "pair" {
			continue
		}
		k := child.ChildByFieldName("key")
		if k == nil {
			continue
		}
		if strings.Trim(r.text(k), `"'`) == key {
			return child
		}
	}
	return nil
}

func (r resolver) Index(n *tree_sitter.Node, i int) (selector.Value[*tree_sitter.Node], bool) {
	idx, ok := selector.NormalizeIndex(i, int(n.NamedChildCount()))
	if !ok {
		return selector.Value[*tree_sitter.Node]{}, false
	}
	child := n.NamedChild(uint(idx))
	if child == nil {
		return selector.Value[*tree_sitter.Node]{}, false
	}
	return selector.NodeValue(child), true
}

// PseudoRange resolves anonymous tokens such as the dot of a member
// expression or the colon of a pair.
func (r resolver) PseudoRange(n *tree_sitter.Node, name string) (mutation.Range, bool) {
	tok, ok := tokenNames[name]
	if !ok {
		return mutation.Range{}, false
	}
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		if child.Kind() == tok || (name == "dot" && child.Kind() == "?.") {
			return r.NodeRange(child), true
		}
	}
	return mutation.Range{}, false
}

func namedChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	count := n.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := range count {
		if child := n.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}
