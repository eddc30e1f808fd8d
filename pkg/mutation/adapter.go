package mutation

import "github.com/yaklabco/nodemutation/pkg/selector"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Location is a 1-based line and 0-based column.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceOptions configures Adapter.GetSource.
type SourceOptions struct {
	// FixIndent strips the node's own indentation from every line after
	// the first.
	FixIndent bool
}

// Adapter supplies node geometry and selector resolution for one syntax
// tree provider. Selectors are dotted paths relative to node; an empty
// selector means the node itself.
//
// Methods taking a selector return an error wrapping ErrNotSupported when
// the selector cannot be resolved.
type Adapter[T any] interface {
	GetSource(node T, opts SourceOptions) string
	RewrittenSource(node T, code string) (string, error)
	FileContent(node T) string
	ChildNodeRange(node T, selector string) (Range, error)
	ChildNodeValue(node T, selector string) (selector.Value[T], error)
	GetStart(node T, selector string) (int, error)
	GetEnd(node T, selector string) (int, error)
	GetStartLoc(node T, selector string) (Location, error)
	GetEndLoc(node T, selector string) (Location, error)
	GetIndent(node T) int
}
