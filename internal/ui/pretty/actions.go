package pretty

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yaklabco/nodemutation/pkg/mutation"
)

const maxCodeWidth = 40

// Location converts a byte offset into a 1-based "line:col" string.
func Location(source []byte, offset int) string {
	offset = min(max(offset, 0), len(source))
	line := 1 + bytes.Count(source[:offset], []byte{'\n'})
	col := offset - bytes.LastIndexByte(source[:offset], '\n')
	return strconv.Itoa(line) + ":" + strconv.Itoa(col)
}

// FormatAction renders one record as "insert 3:5-3:5 ", "!"" with group
// children indented beneath it.
func (s *Styles) FormatAction(source []byte, a *mutation.Action, depth int) string {
	var b strings.Builder
	s.writeAction(&b, source, a, depth)
	return b.String()
}

func (s *Styles) writeAction(b *strings.Builder, source []byte, a *mutation.Action, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(s.Verb.Render(verbName(a)))
	b.WriteString(" ")
	b.WriteString(s.Span.Render(span(source, a)))
	if a.HasCode() {
		b.WriteString(" ")
		b.WriteString(s.Code.Render(strconv.Quote(a.Code())))
	}
	b.WriteString("\n")

	for _, child := range a.Actions {
		s.writeAction(b, source, child, depth+1)
	}
}

// FormatActionTable renders records as a table with one row per record.
// Group children are prefixed with their nesting depth.
func FormatActionTable(source []byte, actions []*mutation.Action) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Action", "Start", "End", "Code"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	var rows func(actions []*mutation.Action, depth int)
	rows = func(actions []*mutation.Action, depth int) {
		for _, a := range actions {
			code := ""
			if a.HasCode() {
				code = truncate(strconv.Quote(a.Code()), maxCodeWidth)
			}
			table.Append([]string{
				strings.Repeat("  ", depth) + verbName(a),
				Location(source, a.Start),
				Location(source, a.End),
				code,
			})
			rows(a.Actions, depth+1)
		}
	}
	rows(actions, 0)

	table.SetFooter([]string{plural(countLeaves(actions), "action"), "", "", ""})
	table.Render()
	return buf.String()
}

func verbName(a *mutation.Action) string {
	if a.Type == mutation.TypeNoop {
		return "noop"
	}
	return string(a.Type)
}

func span(source []byte, a *mutation.Action) string {
	return fmt.Sprintf("%s-%s", Location(source, a.Start), Location(source, a.End))
}

func countLeaves(actions []*mutation.Action) int {
	n := 0
	for _, a := range actions {
		if a.IsGroup() {
			n += countLeaves(a.Actions)
			continue
		}
		n++
	}
	return n
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
