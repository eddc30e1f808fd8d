// Package adaptertest provides an in-memory syntax tree and adapter for
// exercising the mutation engine without a real parser.
package adaptertest

import (
	"strings"

	"github.com/yaklabco/nodemutation/pkg/adapter"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
)

// Node is a hand-built tree node with an explicit byte range.
type Node struct {
	Kind    string
	Start   int
	End     int
	Fields  map[string]*Node
	Lists   map[string][]*Node
	Scalars map[string]string
	Pseudo  map[string]mutation.Range
}

// NewNode creates a node covering [start, end).
func NewNode(kind string, start, end int) *Node {
	return &Node{Kind: kind, Start: start, End: end}
}

// At creates a node covering the first occurrence of text in content,
// searching from offset from. It panics if text is absent.
func At(kind, content, text string, from int) *Node {
	idx := strings.Index(content[from:], text)
	if idx < 0 {
		panic("adaptertest: " + text + " not found")
	}
	start := from + idx
	return NewNode(kind, start, start+len(text))
}

// With attaches a named child and returns n.
func (n *Node) With(name string, child *Node) *Node {
	if n.Fields == nil {
		n.Fields = map[string]*Node{}
	}
	n.Fields[name] = child
	return n
}

// WithList attaches a named child list and returns n.
func (n *Node) WithList(name string, children ...*Node) *Node {
	if n.Lists == nil {
		n.Lists = map[string][]*Node{}
	}
	n.Lists[name] = children
	return n
}

// WithScalar attaches a named literal and returns n.
func (n *Node) WithScalar(name, value string) *Node {
	if n.Scalars == nil {
		n.Scalars = map[string]string{}
	}
	n.Scalars[name] = value
	return n
}

// WithPseudo attaches a range-only pseudo-child and returns n.
func (n *Node) WithPseudo(name string, r mutation.Range) *Node {
	if n.Pseudo == nil {
		n.Pseudo = map[string]mutation.Range{}
	}
	n.Pseudo[name] = r
	return n
}

type resolver struct{}

func (resolver) Field(n *Node, name string) (selector.Value[*Node], bool) {
	if child, ok := n.Fields[name]; ok {
		return selector.NodeValue(child), true
	}
	if list, ok := n.Lists[name]; ok {
		return selector.NodesValue(list), true
	}
	if s, ok := n.Scalars[name]; ok {
		return selector.ScalarValue[*Node](s), true
	}
	if name == "kind" {
		return selector.ScalarValue[*Node](n.Kind), true
	}
	return selector.Value[*Node]{}, false
}

func (resolver) Index(*Node, int) (selector.Value[*Node], bool) {
	return selector.Value[*Node]{}, false
}

func (resolver) NodeRange(n *Node) mutation.Range {
	return mutation.Range{Start: n.Start, End: n.End}
}

func (resolver) PseudoRange(n *Node, name string) (mutation.Range, bool) {
	r, ok := n.Pseudo[name]
	return r, ok
}

// Adapter implements mutation.Adapter over Node trees.
type Adapter struct {
	*adapter.Base[*Node]
}

// New creates an adapter over content.
func New(content string) *Adapter {
	return &Adapter{Base: adapter.NewBase[*Node](content, resolver{})}
}

var _ mutation.Adapter[*Node] = (*Adapter)(nil)
