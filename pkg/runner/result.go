package runner

import "github.com/yaklabco/nodemutation/pkg/mutation"

// FileOutcome pairs a path with its result or error.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set, except for failed writes.
	Result *FileResult

	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesAffected   int
	FilesChanged    int
	FilesConflicted int
	FilesWritten    int
	FilesErrored    int
	Actions         int
	LinesAdded      int
	LinesRemoved    int
}

// Result is the overall outcome of a run, files in discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasConflicts reports whether any file dropped conflicting actions.
func (r *Result) HasConflicts() bool {
	return r != nil && r.Stats.FilesConflicted > 0
}

// Errors returns the per-file errors in order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return errs
}

// Add appends an outcome and folds it into the stats.
func (r *Result) Add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
	}

	res := outcome.Result
	if res == nil {
		return
	}
	if outcome.Error == nil {
		r.Stats.FilesProcessed++
	}
	if res.Affected {
		r.Stats.FilesAffected++
	}
	if res.Conflicted {
		r.Stats.FilesConflicted++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Changed() {
		r.Stats.FilesChanged++
		r.Stats.LinesAdded += res.Diff.Additions
		r.Stats.LinesRemoved += res.Diff.Deletions
	}
	r.Stats.Actions += countLeaves(res)
}

func countLeaves(res *FileResult) int {
	n := 0
	var walk func(actions []*mutation.Action)
	walk = func(actions []*mutation.Action) {
		for _, a := range actions {
			if a.IsGroup() {
				walk(a.Actions)
				continue
			}
			n++
		}
	}
	walk(res.Actions)
	return n
}
