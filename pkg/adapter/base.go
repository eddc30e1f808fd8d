// Package adapter provides Base, a reusable implementation of
// mutation.Adapter on top of a small per-provider NodeResolver.
//
// A provider only has to report node ranges and resolve field names; Base
// adds selector walking, template expansion, locations and indentation.
package adapter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
	"github.com/yaklabco/nodemutation/pkg/source"
)

// NodeResolver is the part of an adapter that knows a concrete node type.
type NodeResolver[T any] interface {
	selector.Resolver[T]

	// NodeRange returns the byte range of node in the file.
	NodeRange(node T) mutation.Range
}

// PseudoRanger is implemented by resolvers that expose range-only
// pseudo-children such as a member expression's dot.
type PseudoRanger[T any] interface {
	PseudoRange(node T, name string) (mutation.Range, bool)
}

//nolint:gochecknoglobals // Compiled once.
var placeholderPattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

var errNoRange = errors.New("value has no source range")

// Base implements mutation.Adapter for one parsed file.
type Base[T any] struct {
	file     *source.File
	resolver NodeResolver[T]
}

// NewBase creates a Base over content.
func NewBase[T any](content string, resolver NodeResolver[T]) *Base[T] {
	return NewBaseFile(source.New(content), resolver)
}

// NewBaseFile creates a Base over an already indexed file.
func NewBaseFile[T any](file *source.File, resolver NodeResolver[T]) *Base[T] {
	return &Base[T]{file: file, resolver: resolver}
}

// File returns the line index of the underlying content.
func (b *Base[T]) File() *source.File {
	return b.file
}

// FileContent returns the full source text.
func (b *Base[T]) FileContent(T) string {
	return b.file.Content
}

// GetSource returns the node's text.
func (b *Base[T]) GetSource(node T, opts mutation.SourceOptions) string {
	r := b.resolver.NodeRange(node)
	text := b.file.Content[r.Start:r.End]
	if opts.FixIndent {
		return FixIndent(text, b.GetIndent(node))
	}
	return text
}

// GetIndent returns the indentation of the node's first line.
func (b *Base[T]) GetIndent(node T) int {
	return b.file.IndentOf(b.resolver.NodeRange(node).Start)
}

// GetStart returns the start offset of the node or of the selected child.
func (b *Base[T]) GetStart(node T, sel string) (int, error) {
	r, err := b.ChildNodeRange(node, sel)
	return r.Start, err
}

// GetEnd returns the end offset of the node or of the selected child.
func (b *Base[T]) GetEnd(node T, sel string) (int, error) {
	r, err := b.ChildNodeRange(node, sel)
	return r.End, err
}

// GetStartLoc returns the location of GetStart.
func (b *Base[T]) GetStartLoc(node T, sel string) (mutation.Location, error) {
	start, err := b.GetStart(node, sel)
	if err != nil {
		return mutation.Location{}, err
	}
	return b.location(start), nil
}

// GetEndLoc returns the location of GetEnd.
func (b *Base[T]) GetEndLoc(node T, sel string) (mutation.Location, error) {
	end, err := b.GetEnd(node, sel)
	if err != nil {
		return mutation.Location{}, err
	}
	return b.location(end), nil
}

func (b *Base[T]) location(offset int) mutation.Location {
	line, col := b.file.LineAt(offset)
	return mutation.Location{Line: line, Column: col}
}

// ChildNodeValue resolves sel to a node, node list or scalar.
func (b *Base[T]) ChildNodeValue(node T, sel string) (selector.Value[T], error) {
	if sel == "" {
		return selector.NodeValue(node), nil
	}
	v, err := selector.WalkString[T](node, sel, b.resolver)
	if err != nil {
		return selector.Value[T]{}, b.notSupported(node, sel, err)
	}
	return v, nil
}

// ChildNodeRange resolves sel to a byte range. Besides regular fields it
// understands pseudo-children from a PseudoRanger. An out-of-range index
// yields the zero-width range before the last character of the list's
// owner, or of the indexed node itself, which places an insertion inside
// the closing bracket of an empty argument list.
func (b *Base[T]) ChildNodeRange(node T, sel string) (mutation.Range, error) {
	if sel == "" {
		return b.resolver.NodeRange(node), nil
	}

	path, err := selector.Parse(sel)
	if err != nil {
		return mutation.Range{}, b.notSupported(node, sel, err)
	}

	v, walkErr := selector.Walk[T](node, path, b.resolver)
	if walkErr == nil {
		if r, ok := b.valueRange(v); ok {
			return r, nil
		}
		walkErr = errNoRange
	}

	if r, ok := b.fallbackRange(node, path); ok {
		return r, nil
	}
	return mutation.Range{}, b.notSupported(node, sel, walkErr)
}

func (b *Base[T]) valueRange(v selector.Value[T]) (mutation.Range, bool) {
	switch v.Kind {
	case selector.KindNode:
		return b.resolver.NodeRange(v.Node), true
	case selector.KindNodes:
		if len(v.Nodes) == 0 {
			return mutation.Range{}, false
		}
		first := b.resolver.NodeRange(v.Nodes[0])
		last := b.resolver.NodeRange(v.Nodes[len(v.Nodes)-1])
		return mutation.Range{Start: first.Start, End: last.End}, true
	default:
		return mutation.Range{}, false
	}
}

func (b *Base[T]) fallbackRange(node T, path selector.Path) (mutation.Range, bool) {
	parent := selector.NodeValue(node)
	if len(path) > 1 {
		v, err := selector.Walk[T](node, path.Parent(), b.resolver)
		if err != nil {
			return mutation.Range{}, false
		}
		parent = v
	}

	last := path.Last()
	switch parent.Kind {
	case selector.KindNode:
		if last.IsIndex {
			end := b.resolver.NodeRange(parent.Node).End
			return mutation.Range{Start: end - 1, End: end - 1}, true
		}
		if pr, ok := b.resolver.(PseudoRanger[T]); ok {
			return pr.PseudoRange(parent.Node, last.Name)
		}
	case selector.KindNodes:
		if !last.IsIndex || len(path) < 2 {
			return mutation.Range{}, false
		}
		owner := selector.NodeValue(node)
		if len(path) > 2 {
			v, err := selector.Walk[T](node, path.Parent().Parent(), b.resolver)
			if err != nil || v.Kind != selector.KindNode {
				return mutation.Range{}, false
			}
			owner = v
		}
		end := b.resolver.NodeRange(owner.Node).End
		return mutation.Range{Start: end - 1, End: end - 1}, true
	}
	return mutation.Range{}, false
}

// RewrittenSource expands {{selector}} placeholders in code. A node expands
// to its source, a list to the text from its first to its last element, a
// scalar to itself.
func (b *Base[T]) RewrittenSource(node T, code string) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(code, func(match string) string {
		if firstErr != nil {
			return match
		}
		sel := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])
		v, err := b.ChildNodeValue(node, sel)
		if err != nil {
			firstErr = &mutation.NotSupportedError{
				Selector: sel,
				Message:  fmt.Sprintf("can not parse %q", code),
				Err:      err,
			}
			return match
		}
		switch v.Kind {
		case selector.KindScalar:
			return v.Scalar
		case selector.KindNodes:
			r, ok := b.valueRange(v)
			if !ok {
				return ""
			}
			return b.file.Content[r.Start:r.End]
		default:
			return b.GetSource(v.Node, mutation.SourceOptions{})
		}
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (b *Base[T]) notSupported(node T, sel string, cause error) error {
	return &mutation.NotSupportedError{
		Selector: sel,
		Message:  fmt.Sprintf("unresolved in %s", abbreviate(b.GetSource(node, mutation.SourceOptions{}))),
		Err:      cause,
	}
}

func abbreviate(s string) string {
	const limit = 40
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// FixIndent strips up to column leading blanks from every non-empty line
// after the first, and trims trailing whitespace.
func FixIndent(text string, column int) string {
	lines := strings.Split(strings.TrimRight(text, " \t\r\n"), "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		lines[i] = line[min(source.Indent(line), column):]
	}
	return strings.Join(lines, "\n")
}
