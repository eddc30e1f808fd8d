package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/nodemutation/internal/ui/pretty"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// SummaryReporter prints only aggregate statistics and per-file errors.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}

	for _, file := range result.Files {
		if file.Error != nil {
			if _, err := fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.displayPath(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error))); err != nil {
				return 0, err
			}
		}
	}

	if _, err := fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats)); err != nil {
		return 0, err
	}
	return affectedFiles(result), nil
}
