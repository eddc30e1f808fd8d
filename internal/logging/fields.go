// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig   = "config"
	FieldPlan     = "plan"
	FieldStrategy = "strategy"
	FieldTabWidth = "tab_width"
	FieldLanguage = "language"
	FieldWrite    = "write"
	FieldJobs     = "jobs"

	// Mutation fields.
	FieldAction     = "action"
	FieldActions    = "actions"
	FieldKept       = "kept"
	FieldStep       = "step"
	FieldVerb       = "verb"
	FieldAffected   = "affected"
	FieldConflicted = "conflicted"

	// Statistics fields.
	FieldFilesProcessed = "files_processed"
	FieldFilesModified  = "files_modified"
	FieldFilesConflict  = "files_conflicted"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
