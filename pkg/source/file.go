// Package source provides a line index over a source buffer, converting
// between byte offsets and line/column locations.
package source

import "sort"

// Line holds the byte boundaries of a single line.
type Line struct {
	// Start is the byte index of the first character of the line.
	Start int

	// NewlineStart is the byte index where the line terminator begins.
	// For the last line without a terminator it equals End.
	NewlineStart int

	// End is the byte index just after the terminator (or end of content).
	End int
}

// File is an immutable view of a source buffer with its line index.
type File struct {
	Content string
	Lines   []Line
}

// New indexes content. LF and CRLF terminators are recognised.
// The result always has at least one line.
func New(content string) *File {
	return &File{Content: content, Lines: buildLines(content)}
}

func buildLines(content string) []Line {
	var lines []Line
	lineStart := 0

	for idx := range len(content) {
		if content[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, Line{Start: lineStart, NewlineStart: newlineStart, End: idx + 1})
		lineStart = idx + 1
	}

	// Trailing line, empty when content ends in a newline.
	lines = append(lines, Line{Start: lineStart, NewlineStart: len(content), End: len(content)})
	return lines
}

// LineCount returns the number of lines.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to a 1-based line and 0-based column.
// Offsets past the end clamp to the end of the last line.
func (f *File) LineAt(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(f.Content) {
		last := f.Lines[len(f.Lines)-1]
		return len(f.Lines), len(f.Content) - last.Start
	}

	idx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].End > offset
	})
	if idx >= len(f.Lines) {
		idx = len(f.Lines) - 1
	}
	return idx + 1, offset - f.Lines[idx].Start
}

// Offset converts a 1-based line and 0-based column to a byte offset.
func (f *File) Offset(line, column int) (int, bool) {
	if line < 1 || line > len(f.Lines) || column < 0 {
		return 0, false
	}
	info := f.Lines[line-1]
	offset := info.Start + column
	if offset > info.End {
		return 0, false
	}
	return offset, true
}

// LineStart returns the byte offset at which the 1-based line begins.
func (f *File) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(f.Lines) {
		return len(f.Content)
	}
	return f.Lines[line-1].Start
}

// LineContent returns the text of a 1-based line without its terminator.
func (f *File) LineContent(line int) string {
	if line < 1 || line > len(f.Lines) {
		return ""
	}
	info := f.Lines[line-1]
	return f.Content[info.Start:info.NewlineStart]
}

// IndentAt returns the column of the first non-blank character of a line.
// A blank line reports its full width.
func (f *File) IndentAt(line int) int {
	return Indent(f.LineContent(line))
}

// IndentOf returns the indentation of the line containing offset.
func (f *File) IndentOf(offset int) int {
	line, _ := f.LineAt(offset)
	return f.IndentAt(line)
}

// Indent counts leading spaces and tabs.
func Indent(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}
