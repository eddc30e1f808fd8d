package selector

import (
	"errors"
	"fmt"
)

// ErrUnresolved is returned when a segment cannot be resolved against the
// current value.
var ErrUnresolved = errors.New("selector not resolved")

// ResolveError describes the segment at which evaluation stopped.
type ResolveError struct {
	Path    Path
	Segment Segment
	Reason  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %q at segment %q: %s", ErrUnresolved, e.Path.String(), e.Segment.Name, e.Reason)
}

func (e *ResolveError) Unwrap() error {
	return ErrUnresolved
}

// Resolver supplies provider-specific lookups. Index handling on node lists
// is done by Walk itself; Resolver.Index is only consulted for an integer
// segment applied to a single node.
type Resolver[T any] interface {
	// Field resolves a named child, list, scalar or pseudo-child of node.
	Field(node T, name string) (Value[T], bool)

	// Index resolves an integer segment applied directly to node.
	Index(node T, i int) (Value[T], bool)
}

// Walk evaluates path starting at root.
func Walk[T any](root T, path Path, r Resolver[T]) (Value[T], error) {
	return walk(NodeValue(root), path, path, r)
}

// WalkString parses and evaluates path in one step.
func WalkString[T any](root T, path string, r Resolver[T]) (Value[T], error) {
	p, err := Parse(path)
	if err != nil {
		return Value[T]{}, err
	}
	return Walk(root, p, r)
}

func walk[T any](cur Value[T], rest, full Path, r Resolver[T]) (Value[T], error) {
	if len(rest) == 0 {
		return cur, nil
	}

	seg := rest[0]
	next, err := step(cur, seg, full, r)
	if err != nil {
		return Value[T]{}, err
	}
	return walk(next, rest[1:], full, r)
}

func step[T any](cur Value[T], seg Segment, full Path, r Resolver[T]) (Value[T], error) {
	switch cur.Kind {
	case KindNodes:
		if !seg.IsIndex {
			if seg.Name == "length" {
				return ScalarValue[T](fmt.Sprint(len(cur.Nodes))), nil
			}
			return Value[T]{}, &ResolveError{Path: full, Segment: seg, Reason: "list has no named fields"}
		}
		idx, ok := NormalizeIndex(seg.Index, len(cur.Nodes))
		if !ok {
			return Value[T]{}, &ResolveError{
				Path: full, Segment: seg,
				Reason: fmt.Sprintf("index out of range for list of %d", len(cur.Nodes)),
			}
		}
		return NodeValue(cur.Nodes[idx]), nil

	case KindNode:
		var (
			v  Value[T]
			ok bool
		)
		if seg.IsIndex {
			v, ok = r.Index(cur.Node, seg.Index)
		} else {
			v, ok = r.Field(cur.Node, seg.Name)
		}
		if !ok || !v.IsValid() {
			return Value[T]{}, &ResolveError{Path: full, Segment: seg, Reason: "unknown field"}
		}
		return v, nil

	default:
		return Value[T]{}, &ResolveError{Path: full, Segment: seg, Reason: "cannot descend into " + cur.Kind.String()}
	}
}

// NormalizeIndex maps a possibly negative index onto [0, n). Negative indices
// count from the end.
func NormalizeIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
