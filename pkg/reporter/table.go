package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/yaklabco/nodemutation/internal/ui/pretty"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// TableReporter lists files in a table. In test mode each affected file is
// followed by a table of its surviving actions.
type TableReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TableReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	fmt.Fprint(r.bw, r.fileTable(result))

	for _, file := range result.Files {
		res := file.Result
		if file.Error != nil || res == nil || len(res.Actions) == 0 {
			continue
		}
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.Bold.Render(r.opts.displayPath(file.Path)))
		fmt.Fprint(r.bw, pretty.FormatActionTable(res.Original, res.Actions))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return affectedFiles(result), nil
}

func (r *TableReporter) fileTable(result *runner.Result) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Language", "Status", "+", "-"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, file := range result.Files {
		table.Append(fileRow(r.opts.displayPath(file.Path), file))
	}

	stats := result.Stats
	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(result.Files)),
		"",
		fmt.Sprintf("%d changed", stats.FilesChanged),
		strconv.Itoa(stats.LinesAdded),
		strconv.Itoa(stats.LinesRemoved),
	})

	table.Render()
	return buf.String()
}

func fileRow(path string, file runner.FileOutcome) []string {
	res := file.Result
	if res == nil {
		return []string{path, "", "error", "", ""}
	}

	status := "unchanged"
	switch {
	case file.Error != nil:
		status = "error"
	case res.Conflicted:
		status = "conflicted"
	case res.Written:
		status = "written"
	case res.Changed():
		status = "changed"
	case res.Affected:
		status = "affected"
	}

	var added, removed string
	if res.Changed() {
		added = strconv.Itoa(res.Diff.Additions)
		removed = strconv.Itoa(res.Diff.Deletions)
	}
	return []string{path, res.Language.String(), status, added, removed}
}
