package mutation

import "strings"

// splice applies sorted, non-overlapping leaves to source.
//
// Walking the records left to right against the original offsets yields the
// same text as applying them right to left against the partially rewritten
// string. Zero-width records at one offset come out in list order, so the
// lower conflict position lands further left. Records without code are
// skipped.
func splice(source string, leaves []*Action) string {
	if len(leaves) == 0 {
		return source
	}

	delta := 0
	for _, a := range leaves {
		if a.HasCode() {
			delta += len(*a.NewCode) - (a.End - a.Start)
		}
	}

	var out strings.Builder
	out.Grow(max(len(source)+delta, 0))

	cursor := 0
	for _, a := range leaves {
		if !a.HasCode() {
			continue
		}
		out.WriteString(source[cursor:a.Start])
		out.WriteString(*a.NewCode)
		cursor = a.End
	}
	out.WriteString(source[cursor:])

	return out.String()
}
