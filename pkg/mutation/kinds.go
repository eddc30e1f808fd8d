package mutation

import "strings"

// appendKind inserts code just before the node's closing brace, indented
// one level deeper than the node.
type appendKind[T any] struct{}

func (appendKind[T]) actionType() Type { return TypeInsert }

func (appendKind[T]) calculatePositions(b *builder[T]) error {
	end, err := b.adapter.GetEnd(b.node, "")
	if err != nil {
		return err
	}
	b.start = end - b.adapter.GetIndent(b.node) - len("}")
	b.end = b.start
	return nil
}

func (appendKind[T]) newCode(b *builder[T]) (*string, error) {
	return indentedCode(b)
}

// prependKind inserts code right after the node's opening brace line.
type prependKind[T any] struct{}

func (prependKind[T]) actionType() Type { return TypeInsert }

func (prependKind[T]) calculatePositions(b *builder[T]) error {
	start, err := b.adapter.GetStart(b.node, "")
	if err != nil {
		return err
	}
	brace := strings.Index(b.adapter.GetSource(b.node, SourceOptions{}), "{")
	if brace < 0 {
		return &NotSupportedError{Message: "node has no opening brace"}
	}
	b.start = start + brace + len("{\n")
	b.end = b.start
	return nil
}

func (prependKind[T]) newCode(b *builder[T]) (*string, error) {
	return indentedCode(b)
}

func indentedCode[T any](b *builder[T]) (*string, error) {
	code, err := b.rewrittenSource()
	if err != nil {
		return nil, err
	}
	out := addIndent(code, b.adapter.GetIndent(b.node)+b.tabWidth)
	return &out, nil
}

// insertKind inserts code at the start or end of the node or a child.
type insertKind[T any] struct {
	opts InsertOptions
}

func (insertKind[T]) actionType() Type { return TypeInsert }

func (k insertKind[T]) calculatePositions(b *builder[T]) error {
	r, err := b.adapter.ChildNodeRange(b.node, k.opts.To)
	if err != nil {
		return err
	}
	if k.opts.At == AtBeginning {
		b.start = r.Start
	} else {
		b.start = r.End
	}
	b.end = b.start
	b.conflictPosition = k.opts.ConflictPosition
	return nil
}

func (k insertKind[T]) newCode(b *builder[T]) (*string, error) {
	code, err := b.rewrittenSource()
	if err != nil {
		return nil, err
	}
	sep := ""
	switch {
	case k.opts.AndComma:
		sep = ", "
	case k.opts.AndSpace:
		sep = " "
	}
	if k.opts.At == AtBeginning {
		code += sep
	} else {
		code = sep + code
	}
	return &code, nil
}

// deleteKind deletes the union of one or more child ranges.
type deleteKind[T any] struct {
	selectors []string
	opts      DeleteOptions
}

func (deleteKind[T]) actionType() Type { return TypeDelete }

func (k deleteKind[T]) calculatePositions(b *builder[T]) error {
	if err := b.selectorsSpan(k.selectors); err != nil {
		return err
	}
	b.squeezeSpaces()
	b.removeBraces()
	if k.opts.AndComma {
		b.removeComma()
	}
	b.removeSpace()
	return nil
}

func (deleteKind[T]) newCode(*builder[T]) (*string, error) {
	return Text(""), nil
}

// removeKind deletes the node, taking its whole line when it stands alone.
type removeKind[T any] struct {
	opts RemoveOptions
}

func (removeKind[T]) actionType() Type { return TypeDelete }

func (k removeKind[T]) calculatePositions(b *builder[T]) error {
	whole, err := b.takesWholeLine()
	if err != nil {
		return err
	}
	if whole {
		return b.removeWholeLine()
	}
	if err := b.nodeSpan(); err != nil {
		return err
	}
	b.squeezeSpaces()
	if k.opts.AndComma {
		b.removeComma()
	}
	b.removeSpace()
	return nil
}

func (removeKind[T]) newCode(*builder[T]) (*string, error) {
	return Text(""), nil
}

// replaceKind replaces the union of child ranges with a template.
type replaceKind[T any] struct {
	selectors []string
}

func (replaceKind[T]) actionType() Type { return TypeReplace }

func (k replaceKind[T]) calculatePositions(b *builder[T]) error {
	return b.selectorsSpan(k.selectors)
}

func (replaceKind[T]) newCode(b *builder[T]) (*string, error) {
	code, err := b.rewrittenSource()
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// replaceWithKind replaces the whole node with a template.
type replaceWithKind[T any] struct {
	opts ReplaceWithOptions
}

func (replaceWithKind[T]) actionType() Type { return TypeReplace }

func (k replaceWithKind[T]) calculatePositions(b *builder[T]) error {
	if err := b.nodeSpan(); err != nil {
		return err
	}
	if !k.opts.autoIndent() {
		loc, err := b.adapter.GetStartLoc(b.node, "")
		if err != nil {
			return err
		}
		b.start -= loc.Column
	}
	return nil
}

func (k replaceWithKind[T]) newCode(b *builder[T]) (*string, error) {
	code, err := b.rewrittenSource()
	if err != nil {
		return nil, err
	}
	if !k.opts.autoIndent() || !strings.Contains(code, "\n") {
		return &code, nil
	}
	spaces := strings.Repeat(" ", b.adapter.GetIndent(b.node))
	lines := strings.Split(code, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = spaces + lines[i]
		}
	}
	out := strings.Join(lines, "\n")
	return &out, nil
}

// indentKind shifts every line of the node right by whole indent levels.
type indentKind[T any] struct {
	opts IndentOptions
}

func (indentKind[T]) actionType() Type { return TypeReplace }

func (indentKind[T]) calculatePositions(b *builder[T]) error {
	return b.nodeSpan()
}

func (k indentKind[T]) newCode(b *builder[T]) (*string, error) {
	spaces := strings.Repeat(" ", b.tabWidth*k.opts.tabSize())
	lines := strings.Split(b.adapter.GetSource(b.node, SourceOptions{}), "\n")
	for i, line := range lines {
		lines[i] = spaces + line
	}
	out := strings.Join(lines, "\n")
	return &out, nil
}

// noopKind records the node's span without changing any text.
type noopKind[T any] struct{}

func (noopKind[T]) actionType() Type { return TypeNoop }

func (noopKind[T]) calculatePositions(b *builder[T]) error {
	return b.nodeSpan()
}

func (noopKind[T]) newCode(*builder[T]) (*string, error) {
	return nil, nil
}
