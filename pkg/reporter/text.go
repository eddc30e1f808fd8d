package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/nodemutation/internal/ui/pretty"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	for _, file := range result.Files {
		r.writeFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return affectedFiles(result), nil
}

func (r *TextReporter) writeFile(file runner.FileOutcome) {
	path := r.styles.FilePath.Render(r.opts.displayPath(file.Path))

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		if file.Result == nil {
			return
		}
	}

	res := file.Result
	if res == nil || !res.Affected {
		return
	}

	status := r.status(res)
	fmt.Fprintf(r.bw, "%s %s\n", path, status)

	for _, a := range res.Actions {
		fmt.Fprint(r.bw, r.styles.FormatAction(res.Original, a, 1))
	}
}

func (r *TextReporter) status(res *runner.FileResult) string {
	var status string
	switch {
	case res.Actions != nil:
		status = r.styles.Dim.Render(fmt.Sprintf("(%s, %d actions)", res.Language, len(res.Actions)))
	case res.Written:
		status = r.styles.Success.Render(fmt.Sprintf("written (+%d -%d)", res.Diff.Additions, res.Diff.Deletions))
	case res.Changed():
		status = r.styles.Dim.Render(fmt.Sprintf("would change (+%d -%d)", res.Diff.Additions, res.Diff.Deletions))
	default:
		status = r.styles.Dim.Render("unchanged")
	}
	if res.Conflicted {
		status += " " + r.styles.Warning.Render("conflicting actions dropped")
	}
	return status
}
