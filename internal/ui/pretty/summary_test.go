package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/nodemutation/internal/ui/pretty"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name    string
		stats   runner.Stats
		want    []string
		notWant []string
	}{
		{
			name:    "clean",
			stats:   runner.Stats{FilesDiscovered: 4, FilesProcessed: 4},
			want:    []string{"Summary", "Files processed:", "Mutation completed"},
			notWant: []string{"Files written:", "Files failed:"},
		},
		{
			name: "written",
			stats: runner.Stats{
				FilesProcessed: 3, FilesAffected: 2, FilesChanged: 2, FilesWritten: 2,
				Actions: 5, LinesAdded: 4, LinesRemoved: 1,
			},
			want: []string{"Files changed:", "Files written:", "Lines added:", "Mutation completed"},
		},
		{
			name:  "conflicts",
			stats: runner.Stats{FilesProcessed: 1, FilesAffected: 1, FilesConflicted: 1},
			want:  []string{"Files conflicted:", "Mutation completed with conflicts"},
		},
		{
			name:  "errors win",
			stats: runner.Stats{FilesProcessed: 1, FilesConflicted: 1, FilesErrored: 1},
			want:  []string{"Files failed:", "Mutation failed for some files"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := styles.FormatSummary(tt.stats)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "no changes",
			stats: runner.Stats{FilesProcessed: 1},
			want:  "No changes (1 file processed)\n",
		},
		{
			name:  "changed",
			stats: runner.Stats{FilesProcessed: 12, FilesAffected: 3, FilesChanged: 3, LinesAdded: 4, LinesRemoved: 2},
			want:  "3 files changed (+4 -2) of 12 processed\n",
		},
		{
			name: "everything",
			stats: runner.Stats{
				FilesProcessed: 5, FilesAffected: 2, FilesChanged: 1, FilesWritten: 1,
				FilesConflicted: 1, FilesErrored: 2, LinesAdded: 1,
			},
			want: "1 file changed (+1 -0) of 5 processed, 1 written, 1 conflicted, 2 failed\n",
		},
		{
			name:  "affected without change",
			stats: runner.Stats{FilesProcessed: 2, FilesAffected: 2},
			want:  "0 files changed of 2 processed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
