package mutation

import "strings"

// builder holds the mutable state of one action while its positions are
// calculated. It never escapes build.
type builder[T any] struct {
	adapter  Adapter[T]
	node     T
	code     string
	tabWidth int

	start            int
	end              int
	conflictPosition int
}

// kind is implemented by every leaf action variant.
type kind[T any] interface {
	actionType() Type
	calculatePositions(b *builder[T]) error
	newCode(b *builder[T]) (*string, error)
}

// build runs both steps of a variant and freezes the result.
func (b *builder[T]) build(k kind[T]) (*Action, error) {
	if err := k.calculatePositions(b); err != nil {
		return nil, err
	}
	code, err := k.newCode(b)
	if err != nil {
		return nil, err
	}
	return &Action{
		Type:             k.actionType(),
		Start:            b.start,
		End:              b.end,
		NewCode:          code,
		ConflictPosition: b.conflictPosition,
	}, nil
}

func (b *builder[T]) source() string {
	return b.adapter.FileContent(b.node)
}

func (b *builder[T]) rewrittenSource() (string, error) {
	return b.adapter.RewrittenSource(b.node, b.code)
}

// nodeSpan sets start and end to the node's own range.
func (b *builder[T]) nodeSpan() error {
	start, err := b.adapter.GetStart(b.node, "")
	if err != nil {
		return err
	}
	end, err := b.adapter.GetEnd(b.node, "")
	if err != nil {
		return err
	}
	b.start, b.end = start, end
	return nil
}

// selectorsSpan sets start and end to the union of the selector ranges.
func (b *builder[T]) selectorsSpan(selectors []string) error {
	if len(selectors) == 0 {
		return &NotSupportedError{Message: "no selectors given"}
	}
	for i, sel := range selectors {
		r, err := b.adapter.ChildNodeRange(b.node, sel)
		if err != nil {
			return err
		}
		if i == 0 {
			b.start, b.end = r.Start, r.End
			continue
		}
		b.start = min(b.start, r.Start)
		b.end = max(b.end, r.End)
	}
	return nil
}

// addIndent prefixes every non-empty line of code with indent spaces and
// appends a newline.
func addIndent(code string, indent int) string {
	spaces := strings.Repeat(" ", indent)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = spaces + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
