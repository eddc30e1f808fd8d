package mutation

import "strings"

// Text fixups widen a delete range so that removing a node does not leave
// stray separators behind. They only move start and end.

func (b *builder[T]) prevIs(s string) bool {
	src := b.source()
	return b.start >= len(s) && b.start <= len(src) && src[b.start-len(s):b.start] == s
}

func (b *builder[T]) nextIs(s string) bool {
	src := b.source()
	return b.end >= 0 && b.end+len(s) <= len(src) && src[b.end:b.end+len(s)] == s
}

func (b *builder[T]) charAt(i int) byte {
	src := b.source()
	if i < 0 || i >= len(src) {
		return 0
	}
	return src[i]
}

// squeezeSpaces absorbs the leading space when the range sits between two
// spaces, so "a b c" minus "b" becomes "a c".
func (b *builder[T]) squeezeSpaces() {
	if b.charAt(b.start-1) == ' ' && b.charAt(b.end) == ' ' {
		b.start--
	}
}

// removeBraces consumes braces that directly wrap the range.
func (b *builder[T]) removeBraces() {
	switch {
	case b.prevIs("{") && b.nextIs("}"):
		b.start--
		b.end++
	case b.prevIs("{ ") && b.nextIs(" }"):
		b.start -= 2
		b.end += 2
	case b.prevIs("{") && b.nextIs(" }"):
		b.start--
		b.end += 2
	case b.prevIs("{ ") && b.nextIs("}"):
		b.start -= 2
		b.end++
	}
}

// removeComma consumes one separating comma. A preceding comma wins over a
// following one. A colon right after the range disables the fixup.
func (b *builder[T]) removeComma() {
	if b.charAt(b.end) == ':' {
		return
	}

	for i := b.start - 1; i >= 0; i-- {
		c := b.charAt(i)
		if c == ',' {
			b.start = i
			return
		}
		if !strings.ContainsRune("\n\r\t ", rune(c)) {
			break
		}
	}

	if b.charAt(b.start) == ':' {
		return
	}
	src := b.source()
	for i := b.end; i < len(src); i++ {
		c := src[i]
		if c == ',' {
			b.end = i + 1
			if b.charAt(b.end) == ' ' {
				b.end++
			}
			return
		}
		if c != ' ' {
			break
		}
	}
}

// removeSpace absorbs the space before an attribute-like node that is the
// last thing before ">" or a line break.
func (b *builder[T]) removeSpace() {
	if b.prevIs(" ") && (b.nextIs(">") || b.nextIs("\n")) {
		b.start--
	}
}

// takesWholeLine reports whether the node's lines hold nothing but the node,
// optionally followed by ";" or ",".
func (b *builder[T]) takesWholeLine() (bool, error) {
	beginLoc, err := b.adapter.GetStartLoc(b.node, "")
	if err != nil {
		return false, err
	}
	endLoc, err := b.adapter.GetEndLoc(b.node, "")
	if err != nil {
		return false, err
	}

	lines := strings.Split(b.source(), "\n")
	if beginLoc.Line < 1 || endLoc.Line > len(lines) || beginLoc.Line > endLoc.Line {
		return false, nil
	}
	fromFile := strings.TrimSpace(strings.Join(lines[beginLoc.Line-1:endLoc.Line], "\n"))
	src := b.adapter.GetSource(b.node, SourceOptions{})
	return fromFile == src || fromFile == src+";" || fromFile == src+",", nil
}

// removeWholeLine spans the node's lines including the trailing newline,
// then squeezes a blank line if the removal would leave two in a row.
func (b *builder[T]) removeWholeLine() error {
	beginLoc, err := b.adapter.GetStartLoc(b.node, "")
	if err != nil {
		return err
	}
	endLoc, err := b.adapter.GetEndLoc(b.node, "")
	if err != nil {
		return err
	}

	src := b.source()
	lines := strings.Split(src, "\n")

	offset := 0
	for i := 0; i < beginLoc.Line-1; i++ {
		offset += len(lines[i]) + 1
	}
	b.start = offset
	for i := beginLoc.Line - 1; i < endLoc.Line; i++ {
		offset += len(lines[i]) + 1
	}
	b.end = min(offset, len(src))

	beforeBlank := beginLoc.Line == 1 || isBlank(lines[beginLoc.Line-2])
	afterBlank := endLoc.Line < len(lines) && isBlank(lines[endLoc.Line])
	if len(lines) > 1 && beforeBlank && afterBlank && b.end < len(src) {
		b.end++
	}
	return nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
