package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// jsonSchemaVersion is bumped whenever JSONOutput changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string             `json:"path"`
	Language   string             `json:"language,omitempty"`
	Affected   bool               `json:"affected"`
	Conflicted bool               `json:"conflicted"`
	Changed    bool               `json:"changed"`
	Written    bool               `json:"written,omitempty"`
	Additions  int                `json:"additions,omitempty"`
	Deletions  int                `json:"deletions,omitempty"`
	Actions    []*mutation.Action `json:"actions,omitempty"`
	Diff       string             `json:"diff,omitempty"`
	NewSource  *string            `json:"newSource,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesProcessed  int `json:"filesProcessed"`
	FilesAffected   int `json:"filesAffected"`
	FilesChanged    int `json:"filesChanged"`
	FilesConflicted int `json:"filesConflicted"`
	FilesWritten    int `json:"filesWritten"`
	FilesErrored    int `json:"filesErrored"`
	Actions         int `json:"actions"`
	LinesAdded      int `json:"linesAdded"`
	LinesRemoved    int `json:"linesRemoved"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return affectedFiles(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesProcessed:  stats.FilesProcessed,
		FilesAffected:   stats.FilesAffected,
		FilesChanged:    stats.FilesChanged,
		FilesConflicted: stats.FilesConflicted,
		FilesWritten:    stats.FilesWritten,
		FilesErrored:    stats.FilesErrored,
		Actions:         stats.Actions,
		LinesAdded:      stats.LinesAdded,
		LinesRemoved:    stats.LinesRemoved,
	}

	for _, file := range result.Files {
		entry := JSONFileResult{Path: r.opts.displayPath(file.Path)}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			entry.Language = string(res.Language)
			entry.Affected = res.Affected
			entry.Conflicted = res.Conflicted
			entry.Written = res.Written
			entry.Actions = res.Actions
			if res.Changed() {
				entry.Changed = true
				entry.Additions = res.Diff.Additions
				entry.Deletions = res.Diff.Deletions
				entry.Diff = res.Diff.String()
				if r.opts.IncludeSource {
					src := string(res.NewSource)
					entry.NewSource = &src
				}
			}
		}

		output.Files = append(output.Files, entry)
	}

	return output
}
