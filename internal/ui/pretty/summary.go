package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/nodemutation/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files changed (+4 -2) of 12 processed, 1 conflicted, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.FilesChanged == 0 && stats.FilesAffected == 0 {
		parts = append(parts, s.Success.Render("No changes")+
			s.Dim.Render(fmt.Sprintf(" (%s processed)", plural(stats.FilesProcessed, "file"))))
	} else {
		changed := plural(stats.FilesChanged, "file") + " changed"
		if stats.FilesChanged > 0 {
			changed += fmt.Sprintf(" (%s %s)",
				s.DiffAdd.Render(fmt.Sprintf("+%d", stats.LinesAdded)),
				s.DiffRemove.Render(fmt.Sprintf("-%d", stats.LinesRemoved)))
		}
		parts = append(parts, changed+fmt.Sprintf(" of %d processed", stats.FilesProcessed))
	}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesConflicted > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d conflicted", stats.FilesConflicted)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, value int) {
		fmt.Fprintf(&builder, "  %-18s %s\n", label+":", style(strconv.Itoa(value)))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", s.SummaryValue.Render, stats.FilesDiscovered)
	row("Files processed", s.SummaryValue.Render, stats.FilesProcessed)
	row("Files affected", s.SummaryValue.Render, stats.FilesAffected)
	if stats.FilesChanged > 0 {
		row("Files changed", s.Success.Render, stats.FilesChanged)
	}
	if stats.FilesWritten > 0 {
		row("Files written", s.Success.Render, stats.FilesWritten)
	}
	if stats.FilesConflicted > 0 {
		row("Files conflicted", s.Warning.Render, stats.FilesConflicted)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render, stats.FilesErrored)
	}

	builder.WriteString("\n")
	row("Actions", s.SummaryValue.Render, stats.Actions)
	row("Lines added", s.DiffAdd.Render, stats.LinesAdded)
	row("Lines removed", s.DiffRemove.Render, stats.LinesRemoved)
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Mutation failed for some files"))
	case stats.FilesConflicted > 0:
		builder.WriteString(s.Warning.Render("Mutation completed with conflicts"))
	default:
		builder.WriteString(s.Success.Render("Mutation completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
