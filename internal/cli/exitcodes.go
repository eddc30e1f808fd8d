package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/nodemutation/pkg/fsutil"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// Exit codes for nodemutation.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitConflicts indicates conflicting actions were dropped under --strict,
	// or a throw_error strategy hit a conflict.
	ExitConflicts = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates a bad configuration or plan file.
	ExitConfigError = 65

	// ExitInternalError indicates a mutation or internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrConflicts is returned when the run ended with conflicts under --strict.
var ErrConflicts = errors.New("conflicting actions were dropped")

// ExitError attaches a process exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the command tree to an exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return classify(err)
}

// ExitCodeFromResult determines the exit code for a finished run.
// File failures take precedence over conflicts.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	code := ExitSuccess
	for _, err := range result.Errors() {
		if c := classify(err); c > code {
			code = c
		}
	}
	if code != ExitSuccess {
		return code
	}

	if strict && result.HasConflicts() {
		return ExitConflicts
	}
	return ExitSuccess
}

func classify(err error) int {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, mutation.ErrConflict):
		return ExitConflicts
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrStale),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
