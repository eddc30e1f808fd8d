// Package runner applies a mutation plan to many files concurrently.
package runner

import (
	"github.com/yaklabco/nodemutation/pkg/fsutil"
	"github.com/yaklabco/nodemutation/pkg/langdetect"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/plan"
)

// Mode selects what is done with the resolved actions.
type Mode int

const (
	// ModeApply rewrites the source.
	ModeApply Mode = iota

	// ModeTest only reports the surviving actions.
	ModeTest
)

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working directory.
	WorkingDir string

	// Language restricts discovery to one language and forces the parser
	// used for every file. Unknown means detect per file.
	Language langdetect.Language

	// ExcludeGlobs skip matching files and directories. Patterns are
	// relative to WorkingDir; "**" crosses directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs caps concurrent files. 0 or negative means runtime.NumCPU().
	Jobs int

	// Plan is replayed against every file.
	Plan *plan.Plan

	// Mutation holds the strategy and tab width; the plan may override them.
	Mutation mutation.Options

	// Flavor is the Markdown flavor.
	Flavor string

	Mode Mode

	// Write commits rewritten files in ModeApply.
	Write bool

	// Backups applies when Write is set.
	Backups fsutil.BackupConfig
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
