package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/nodemutation/internal/logging"
)

// Run discovers files under opts.Paths and replays opts.Plan over each of
// them concurrently. Per-file failures are recorded in the outcome and do
// not stop the run; outcomes keep discovery order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Plan == nil {
		return nil, ErrNoPlan
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger := logging.FromContext(ctx)
	logger.Debug("run started", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := ProcessFile(ctx, path, opts)
			outcomes[i] = FileOutcome{Path: path, Result: res, Error: err}
			done[i] = true
			if err != nil {
				logger.Warn("file failed", logging.FieldPath, path, logging.FieldError, err)
			}
			return nil
		})
	}
	_ = group.Wait()

	for i := range outcomes {
		if done[i] {
			result.Add(outcomes[i])
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesModified, result.Stats.FilesWritten,
		logging.FieldFilesConflict, result.Stats.FilesConflicted)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}
