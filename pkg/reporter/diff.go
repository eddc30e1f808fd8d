package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/nodemutation/internal/ui/pretty"
	"github.com/yaklabco/nodemutation/pkg/diff"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// DiffReporter prints every changed file as a git-style unified diff.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter. Unchanged files print nothing; failed files
// print one error line.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var changed, added, removed int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render("error: "+file.Error.Error()))
			continue
		}
		if !file.Result.Changed() {
			continue
		}

		d := file.Result.Diff
		changed++
		added += d.Additions
		removed += d.Deletions
		r.writeFile(path, d)
	}

	if changed > 0 && r.opts.ShowSummary {
		fmt.Fprintln(r.out, r.totals(changed, added, removed))
	}
	return changed, nil
}

func (r *DiffReporter) writeFile(path string, d *diff.Diff) {
	path = strings.TrimPrefix(path, "/")
	for _, header := range []string{
		fmt.Sprintf("diff --git a/%s b/%s", path, path),
		"--- a/" + path,
		"+++ b/" + path,
	} {
		fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))
	}

	for _, hunk := range d.Hunks {
		fmt.Fprintln(r.out, r.styles.DiffHunk.Render(hunk.Header()))
		for _, line := range hunk.Lines {
			fmt.Fprintln(r.out, r.lineStyle(line.Kind).Render(line.String()))
		}
	}
	fmt.Fprintln(r.out)
}

func (r *DiffReporter) lineStyle(kind diff.LineKind) lipgloss.Style {
	switch kind {
	case diff.LineAdd:
		return r.styles.DiffAdd
	case diff.LineRemove:
		return r.styles.DiffRemove
	default:
		return r.styles.DiffContext
	}
}

// totals renders the closing "N files changed, x insertions(+), y deletions(-)" line.
func (r *DiffReporter) totals(files, added, removed int) string {
	parts := []string{count(files, "file") + " changed"}
	if added > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(count(added, "insertion")+"(+)"))
	}
	if removed > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(count(removed, "deletion")+"(-)"))
	}
	return strings.Join(parts, ", ")
}

func count(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
