// Package golang adapts Go syntax trees from go/parser to the mutation engine.
//
// Selectors use the exported field names of the go/ast node structs, for
// example "Type.Params.List.0.Names.0" on a *ast.FuncDecl. A few range-only
// pseudo-children cover punctuation that go/ast records only as positions.
//
// Append, Prepend and auto-indenting ReplaceWith indent new lines with
// spaces, TabWidth per level. Inside tab-indented Go source that yields
// mixed indentation such as "\ta()\n  b()", so run the result through
// go/format (or gofmt) before writing it back.
package golang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"

	"github.com/yaklabco/nodemutation/pkg/adapter"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
)

// File is a parsed Go source file and its adapter.
type File struct {
	*adapter.Base[ast.Node]

	fset *token.FileSet
	root *ast.File
}

var _ mutation.Adapter[ast.Node] = (*File)(nil)

// Parse parses src as a Go file, keeping comments.
func Parse(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	root, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	r := &resolver{tf: fset.File(root.Pos()), size: len(src)}
	return &File{
		Base: adapter.NewBase[ast.Node](string(src), r),
		fset: fset,
		root: root,
	}, nil
}

// Root returns the file node.
func (f *File) Root() *ast.File {
	return f.root
}

// FileSet returns the file set positions are recorded in.
func (f *File) FileSet() *token.FileSet {
	return f.fset
}

type resolver struct {
	tf   *token.File
	size int
}

//nolint:gochecknoglobals // Reflection lookups.
var (
	nodeType = reflect.TypeFor[ast.Node]()
	posType  = reflect.TypeFor[token.Pos]()
)

func (r *resolver) offset(p token.Pos) int {
	return r.tf.Offset(p)
}

func (r *resolver) NodeRange(n ast.Node) mutation.Range {
	if _, ok := n.(*ast.File); ok {
		return mutation.Range{Start: 0, End: r.size}
	}
	return mutation.Range{Start: r.offset(n.Pos()), End: r.offset(n.End())}
}

func (r *resolver) Field(n ast.Node, name string) (selector.Value[ast.Node], bool) {
	if name == "kind" {
		return selector.ScalarValue[ast.Node](reflect.TypeOf(n).Elem().Name()), true
	}

	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return selector.Value[ast.Node]{}, false
	}
	sf, ok := v.Elem().Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return selector.Value[ast.Node]{}, false
	}
	return fieldValue(v.Elem().FieldByIndex(sf.Index))
}

func fieldValue(fv reflect.Value) (selector.Value[ast.Node], bool) {
	switch {
	case fv.Type() == posType:
		return selector.Value[ast.Node]{}, false
	case fv.Type().Implements(nodeType):
		if fv.IsNil() {
			return selector.Value[ast.Node]{}, false
		}
		node, ok := fv.Interface().(ast.Node)
		return selector.NodeValue(node), ok
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Implements(nodeType):
		nodes := make([]ast.Node, 0, fv.Len())
		for i := range fv.Len() {
			if node, ok := fv.Index(i).Interface().(ast.Node); ok {
				nodes = append(nodes, node)
			}
		}
		return selector.NodesValue(nodes), true
	case fv.Kind() == reflect.String:
		return selector.ScalarValue[ast.Node](fv.String()), true
	case fv.Type().Implements(reflect.TypeFor[fmt.Stringer]()):
		s, _ := fv.Interface().(fmt.Stringer)
		return selector.ScalarValue[ast.Node](s.String()), true
	case fv.Kind() == reflect.Bool || fv.CanInt():
		return selector.ScalarValue[ast.Node](fmt.Sprint(fv.Interface())), true
	default:
		return selector.Value[ast.Node]{}, false
	}
}

// Index treats an integer segment on a container node as an index into its
// primary list.
func (r *resolver) Index(n ast.Node, i int) (selector.Value[ast.Node], bool) {
	var list string
	switch n.(type) {
	case *ast.File:
		list = "Decls"
	case *ast.BlockStmt, *ast.FieldList:
		list = "List"
	case *ast.CallExpr:
		list = "Args"
	case *ast.CompositeLit:
		list = "Elts"
	case *ast.GenDecl:
		list = "Specs"
	default:
		return selector.Value[ast.Node]{}, false
	}

	v, ok := r.Field(n, list)
	if !ok || v.Kind != selector.KindNodes {
		return selector.Value[ast.Node]{}, false
	}
	idx, ok := selector.NormalizeIndex(i, len(v.Nodes))
	if !ok {
		return selector.Value[ast.Node]{}, false
	}
	return selector.NodeValue(v.Nodes[idx]), true
}

// PseudoRange exposes punctuation as range-only children.
func (r *resolver) PseudoRange(n ast.Node, name string) (mutation.Range, bool) {
	span := func(p token.Pos, width int) (mutation.Range, bool) {
		if !p.IsValid() {
			return mutation.Range{}, false
		}
		start := r.offset(p)
		return mutation.Range{Start: start, End: start + width}, true
	}

	switch node := n.(type) {
	case *ast.SelectorExpr:
		if name == "dot" {
			return span(node.X.End(), len("."))
		}
	case *ast.CallExpr:
		if name == "arguments" {
			return mutation.Range{Start: r.offset(node.Lparen), End: r.offset(node.Rparen) + 1}, true
		}
	case *ast.FuncType:
		if name == "params" && node.Params != nil && node.Params.Opening.IsValid() {
			return mutation.Range{
				Start: r.offset(node.Params.Opening),
				End:   r.offset(node.Params.Closing) + 1,
			}, true
		}
	case *ast.FuncDecl:
		switch name {
		case "func":
			return span(node.Type.Func, len("func"))
		case "params":
			return r.PseudoRange(node.Type, name)
		}
	case *ast.KeyValueExpr:
		if name == "colon" {
			return span(node.Colon, len(":"))
		}
	case *ast.BinaryExpr:
		if name == "operator" {
			return span(node.OpPos, len(node.Op.String()))
		}
	}
	return mutation.Range{}, false
}
