package selector

// Kind discriminates the variants of Value.
type Kind int

const (
	// KindNode holds a single node.
	KindNode Kind = iota + 1
	// KindNodes holds an ordered list of nodes.
	KindNodes
	// KindScalar holds a literal string such as an identifier name or an operator.
	KindScalar
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindNodes:
		return "nodes"
	case KindScalar:
		return "scalar"
	default:
		return "invalid"
	}
}

// Value is the result of evaluating a selector: a node, a node list, or a scalar.
type Value[T any] struct {
	Kind   Kind
	Node   T
	Nodes  []T
	Scalar string
}

// NodeValue wraps a single node.
func NodeValue[T any](node T) Value[T] {
	return Value[T]{Kind: KindNode, Node: node}
}

// NodesValue wraps a node list.
func NodesValue[T any](nodes []T) Value[T] {
	return Value[T]{Kind: KindNodes, Nodes: nodes}
}

// ScalarValue wraps a literal.
func ScalarValue[T any](s string) Value[T] {
	return Value[T]{Kind: KindScalar, Scalar: s}
}

// IsValid reports whether the value carries one of the known kinds.
func (v Value[T]) IsValid() bool {
	return v.Kind == KindNode || v.Kind == KindNodes || v.Kind == KindScalar
}
