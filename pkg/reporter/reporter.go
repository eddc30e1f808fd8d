// Package reporter renders the outcome of a mutation run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/nodemutation/pkg/runner"
)

// Reporter writes a run result in one output format.
type Reporter interface {
	// Report writes result and returns the number of files whose plan
	// produced surviving actions.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the Reporter for opts.Format, defaulting to text on stdout.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	newReporter, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
	}
	return newReporter(opts), nil
}

func affectedFiles(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesAffected
}
