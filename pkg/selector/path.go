// Package selector parses dotted selector paths and evaluates them against
// an arbitrary node type through a provider-supplied Resolver.
//
// A path is a sequence of segments separated by dots. Each segment is a field
// name ("expression"), an index into a list ("0", "-1"), or a provider-defined
// pseudo-child ("dot", "arguments", "name_value").
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a selector path cannot be parsed.
var ErrInvalidPath = errors.New("invalid selector path")

// Segment is one dot-separated element of a Path.
type Segment struct {
	// Name is the raw segment text.
	Name string

	// Index is the parsed integer when IsIndex is true.
	Index int

	// IsIndex reports whether the segment is an integer index.
	IsIndex bool
}

// String returns the segment as written.
func (s Segment) String() string {
	return s.Name
}

// Path is a parsed selector.
type Path []Segment

// String joins the segments back into dotted form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.Name
	}
	return strings.Join(parts, ".")
}

// Last returns the final segment. The path must not be empty.
func (p Path) Last() Segment {
	return p[len(p)-1]
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Parse splits a dotted selector into segments.
func Parse(path string) (Path, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := strings.Split(path, ".")
	out := make(Path, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, path)
		}
		seg := Segment{Name: part}
		if n, err := strconv.Atoi(part); err == nil {
			seg.Index = n
			seg.IsIndex = true
		}
		out = append(out, seg)
	}
	return out, nil
}
