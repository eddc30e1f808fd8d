// Package markdown adapts goldmark's Markdown syntax tree to the mutation
// engine.
//
// Block nodes span from the first marker of their first line to the end of
// their last line, so a list item includes its bullet and a fenced code
// block includes both fences. Inline nodes span their delimiters.
package markdown

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/nodemutation/pkg/adapter"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
	"github.com/yaklabco/nodemutation/pkg/source"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// File is a parsed Markdown document and its adapter.
type File struct {
	*adapter.Base[ast.Node]

	root   ast.Node
	flavor string
}

var _ mutation.Adapter[ast.Node] = (*File)(nil)

// Parse parses content with the given flavor. Unknown flavors fall back to
// CommonMark.
func Parse(ctx context.Context, content []byte, flavor string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	flavor = FlavorOrDefault(flavor)
	src := append([]byte(nil), content...)
	root := newGoldmarkInstance(flavor).Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	file := source.New(string(src))
	r := &resolver{src: src, file: file, ranges: make(map[ast.Node]mutation.Range)}
	r.measure(root, 0)

	return &File{
		Base:   adapter.NewBaseFile[ast.Node](file, r),
		root:   root,
		flavor: flavor,
	}, nil
}

// Root returns the document node.
func (f *File) Root() ast.Node {
	return f.root
}

// Flavor returns the flavor the document was parsed with.
func (f *File) Flavor() string {
	return f.flavor
}

// FlavorOrDefault returns flavor if supported, otherwise CommonMark.
func FlavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}

type resolver struct {
	src    []byte
	file   *source.File
	ranges map[ast.Node]mutation.Range
}

func (r *resolver) NodeRange(n ast.Node) mutation.Range {
	return r.ranges[n]
}

// measure records the range of n and its descendants. floor is the end of
// the preceding sibling and anchors nodes that carry no position of their
// own. The boolean reports whether the range came from the source rather
// than from floor.
func (r *resolver) measure(n ast.Node, floor int) (mutation.Range, bool) {
	var (
		kids    mutation.Range
		hasKids bool
	)
	pos := floor
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cr, ok := r.measure(c, pos)
		if !ok {
			continue
		}
		if hasKids {
			kids.Start = min(kids.Start, cr.Start)
			kids.End = max(kids.End, cr.End)
		} else {
			kids, hasKids = cr, true
		}
		pos = max(pos, cr.End)
	}

	rng, ok := r.own(n)
	switch {
	case ok && hasKids:
		rng.Start = min(rng.Start, kids.Start)
		rng.End = max(rng.End, kids.End)
	case hasKids:
		rng, ok = kids, true
	case !ok && n.Type() == ast.TypeBlock:
		rng, ok = r.nextLine(floor)
	}

	if ok {
		rng = r.widen(n, rng)
	} else {
		rng = mutation.Range{Start: floor, End: floor}
	}
	r.ranges[n] = rng
	return rng, ok
}

// own returns the range recorded by goldmark for n itself.
func (r *resolver) own(n ast.Node) (mutation.Range, bool) {
	switch node := n.(type) {
	case *ast.Document:
		return mutation.Range{Start: 0, End: len(r.src)}, true
	case *ast.Text:
		return mutation.Range{Start: node.Segment.Start, End: node.Segment.Stop}, true
	case *ast.RawHTML:
		return segmentsRange(node.Segments)
	case *ast.FencedCodeBlock:
		return r.fenced(node)
	}
	if n.Type() != ast.TypeBlock {
		return mutation.Range{}, false
	}
	return segmentsRange(n.Lines())
}

func segmentsRange(segs *text.Segments) (mutation.Range, bool) {
	if segs == nil || segs.Len() == 0 {
		return mutation.Range{}, false
	}
	return mutation.Range{Start: segs.At(0).Start, End: segs.At(segs.Len() - 1).Stop}, true
}

func (r *resolver) fenced(node *ast.FencedCodeBlock) (mutation.Range, bool) {
	lines := node.Lines()
	var open int
	switch {
	case node.Info != nil:
		open, _ = r.file.LineAt(node.Info.Segment.Start)
	case lines.Len() > 0:
		first, _ := r.file.LineAt(lines.At(0).Start)
		open = first - 1
	default:
		return mutation.Range{}, false
	}

	last := open + lines.Len()
	opening := strings.TrimSpace(r.file.LineContent(open))
	if opening == "" {
		return mutation.Range{}, false
	}
	fence := strings.Repeat(opening[:1], 3)
	if strings.HasPrefix(strings.TrimSpace(r.file.LineContent(last+1)), fence) {
		last++
	}
	return mutation.Range{
		Start: r.file.LineStart(open) + r.file.IndentAt(open),
		End:   r.lineEnd(last),
	}, true
}

// nextLine returns the first non-blank line after floor, for blocks such as
// thematic breaks that goldmark records no segments for.
func (r *resolver) nextLine(floor int) (mutation.Range, bool) {
	line := 1
	if floor > 0 {
		l, _ := r.file.LineAt(floor - 1)
		line = l + 1
	}
	for ; line <= r.file.LineCount(); line++ {
		if strings.TrimSpace(r.file.LineContent(line)) != "" {
			return mutation.Range{Start: r.file.LineStart(line) + r.file.IndentAt(line), End: r.lineEnd(line)}, true
		}
	}
	return mutation.Range{}, false
}

// lineEnd returns the offset just after the last non-blank character of line.
func (r *resolver) lineEnd(line int) int {
	return r.file.LineStart(line) + len(strings.TrimRight(r.file.LineContent(line), " \t"))
}

func (r *resolver) widen(n ast.Node, rng mutation.Range) mutation.Range {
	switch node := n.(type) {
	case *ast.Document:
		return rng
	case *ast.Emphasis:
		return r.delimit(rng, "*_", node.Level)
	case *east.Strikethrough:
		return r.delimit(rng, "~", 2)
	case *ast.CodeSpan:
		return r.codeSpan(rng)
	case *ast.Link:
		return r.link(rng, "[")
	case *ast.Image:
		return r.link(rng, "![")
	}
	if n.Type() != ast.TypeBlock {
		return rng
	}

	startLine, _ := r.file.LineAt(rng.Start)
	endLine, _ := r.file.LineAt(max(rng.End-1, rng.Start))

	switch node := n.(type) {
	case *ast.Heading:
		if !strings.HasPrefix(strings.TrimSpace(r.file.LineContent(startLine)), "#") && isUnderline(r.file.LineContent(endLine+1)) {
			endLine++
		}
	case *ast.HTMLBlock:
		if node.HasClosure() {
			endLine, _ = r.file.LineAt(max(node.ClosureLine.Stop-1, node.ClosureLine.Start))
		}
	}

	if hasMarker(n) {
		rng.Start = r.file.LineStart(startLine) + r.file.IndentAt(startLine)
	}
	rng.End = max(rng.Start, r.lineEnd(endLine))
	return rng
}

func hasMarker(n ast.Node) bool {
	switch n.(type) {
	case *ast.Heading, *ast.List, *ast.ListItem, *ast.Blockquote, *ast.FencedCodeBlock,
		*ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak,
		*east.Table, *east.TableHeader, *east.TableRow:
		return true
	default:
		return false
	}
}

func isUnderline(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && (strings.Trim(line, "=") == "" || strings.Trim(line, "-") == "")
}

// delimit widens rng by up to n delimiter characters on each side.
func (r *resolver) delimit(rng mutation.Range, chars string, n int) mutation.Range {
	for i := 0; i < n && rng.Start > 0 && strings.IndexByte(chars, r.src[rng.Start-1]) >= 0; i++ {
		rng.Start--
	}
	for i := 0; i < n && rng.End < len(r.src) && strings.IndexByte(chars, r.src[rng.End]) >= 0; i++ {
		rng.End++
	}
	return rng
}

func (r *resolver) codeSpan(rng mutation.Range) mutation.Range {
	start, end := rng.Start, rng.End
	if start > 0 && r.src[start-1] == ' ' {
		start--
	}
	if end < len(r.src) && r.src[end] == ' ' {
		end++
	}
	if start == 0 || r.src[start-1] != '`' {
		start = rng.Start
	}
	if end >= len(r.src) || r.src[end] != '`' {
		end = rng.End
	}
	for start > 0 && r.src[start-1] == '`' {
		start--
	}
	for end < len(r.src) && r.src[end] == '`' {
		end++
	}
	return mutation.Range{Start: start, End: end}
}

// link widens the text range of a link or image over its brackets and
// destination.
func (r *resolver) link(rng mutation.Range, open string) mutation.Range {
	if rng.Start >= len(open) && string(r.src[rng.Start-len(open):rng.Start]) == open {
		rng.Start -= len(open)
	}
	end := rng.End
	if end >= len(r.src) || r.src[end] != ']' {
		return rng
	}
	end++
	if end < len(r.src) {
		switch r.src[end] {
		case '(':
			end = closing(r.src, end, '(', ')')
		case '[':
			end = closing(r.src, end, '[', ']')
		}
	}
	rng.End = end
	return rng
}

// closing returns the offset just after the bracket matching the one at i.
func closing(src []byte, i int, open, closeCh byte) int {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case open:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return j + 1
			}
		case '\n':
			return i
		}
	}
	return i
}

func (r *resolver) Field(n ast.Node, name string) (selector.Value[ast.Node], bool) {
	switch name {
	case "children":
		return selector.NodesValue(children(n)), true
	case "first_child":
		if c := n.FirstChild(); c != nil {
			return selector.NodeValue(c), true
		}
	case "last_child":
		if c := n.LastChild(); c != nil {
			return selector.NodeValue(c), true
		}
	case "kind":
		return selector.ScalarValue[ast.Node](n.Kind().String()), true
	case "text":
		rng := r.ranges[n]
		return selector.ScalarValue[ast.Node](string(r.src[rng.Start:rng.End])), true
	default:
		if s, ok := r.scalar(n, name); ok {
			return selector.ScalarValue[ast.Node](s), true
		}
	}
	return selector.Value[ast.Node]{}, false
}

func (r *resolver) scalar(n ast.Node, name string) (string, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		if name == "level" {
			return strconv.Itoa(node.Level), true
		}
	case *ast.Emphasis:
		if name == "level" {
			return strconv.Itoa(node.Level), true
		}
	case *ast.Link:
		return linkScalar(name, node.Destination, node.Title)
	case *ast.Image:
		return linkScalar(name, node.Destination, node.Title)
	case *ast.FencedCodeBlock:
		if name == "language" {
			return string(node.Language(r.src)), true
		}
	case *ast.List:
		switch name {
		case "ordered":
			return strconv.FormatBool(node.IsOrdered()), true
		case "marker":
			return string(node.Marker), true
		}
	case *east.TaskCheckBox:
		if name == "checked" {
			return strconv.FormatBool(node.IsChecked), true
		}
	}
	return "", false
}

func linkScalar(name string, destination, title []byte) (string, bool) {
	switch name {
	case "destination":
		return string(destination), true
	case "title":
		return string(title), true
	default:
		return "", false
	}
}

func (r *resolver) Index(n ast.Node, i int) (selector.Value[ast.Node], bool) {
	kids := children(n)
	idx, ok := selector.NormalizeIndex(i, len(kids))
	if !ok {
		return selector.Value[ast.Node]{}, false
	}
	return selector.NodeValue(kids[idx]), true
}

func children(n ast.Node) []ast.Node {
	out := make([]ast.Node, 0, n.ChildCount())
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}
