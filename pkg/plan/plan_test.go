package plan_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/plan"
)

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := plan.Parse([]byte(`
strategy: keep_running|allow_insert_at_same_position
tab_width: 4
steps:
  - verb: replace
    node: Decls.1.Name
    selectors: [Name]
    with: Run
  - verb: group
    steps:
      - verb: insert
        code: x
        at: beginning
        to: Args.0
        and_comma: true
      - verb: noop
`))
	require.NoError(t, err)

	assert.Equal(t, 4, p.TabWidth)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, plan.VerbReplace, p.Steps[0].Verb)
	assert.Equal(t, []string{"Name"}, p.Steps[0].Selectors)
	assert.Equal(t, "Run", p.Steps[0].With)
	require.Len(t, p.Steps[1].Steps, 2)
	assert.True(t, p.Steps[1].Steps[0].AndComma)
	assert.Equal(t, 4, p.Count())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		want    string
		invalid bool
	}{
		{name: "empty", yaml: "", want: "empty document"},
		{name: "unknown key", yaml: "steps:\n  - verb: noop\n    bogus: 1\n", want: "bogus"},
		{name: "no steps", yaml: "strategy: keep_running\n", want: "no steps"},
		{name: "bad strategy", yaml: "strategy: sometimes\nsteps:\n  - verb: noop\n", want: "unknown flag"},
		{name: "negative tab width", yaml: "tab_width: -1\nsteps:\n  - verb: noop\n", want: "tab_width"},
		{name: "unknown verb", yaml: "steps:\n  - verb: rename\n", want: `unknown verb "rename"`, invalid: true},
		{name: "missing verb", yaml: "steps:\n  - node: Decls.0\n", want: "verb is required", invalid: true},
		{name: "missing code", yaml: "steps:\n  - verb: append\n", want: "code is required", invalid: true},
		{name: "missing selectors", yaml: "steps:\n  - verb: replace\n    with: x\n", want: "selectors are required", invalid: true},
		{name: "bad position", yaml: "steps:\n  - verb: insert\n    code: x\n    at: middle\n", want: "invalid position", invalid: true},
		{name: "empty group", yaml: "steps:\n  - verb: group\n", want: "group has no steps", invalid: true},
		{name: "steps outside group", yaml: "steps:\n  - verb: noop\n    steps:\n      - verb: noop\n", want: "only group", invalid: true},
		{
			name:    "nested path",
			yaml:    "steps:\n  - verb: group\n    steps:\n      - verb: noop\n      - verb: delete\n",
			want:    "steps[0].steps[1] (delete)",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := plan.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.invalid {
				require.ErrorIs(t, err, plan.ErrInvalidStep)
			}
		})
	}
}

func TestParseReportsEveryStep(t *testing.T) {
	t.Parallel()

	_, err := plan.Parse([]byte("steps:\n  - verb: append\n  - verb: delete\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0]")
	assert.Contains(t, err.Error(), "steps[1]")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - verb: remove\n    node: Decls.0\n"), 0o644))

	p, err := plan.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Decls.0", p.Steps[0].Node)

	_, err = plan.Load(filepath.Join(dir, "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("steps:\n  - verb: nope\n"), 0o644))
	_, err = plan.Load(bad)
	require.ErrorIs(t, err, plan.ErrInvalidStep)
	assert.True(t, strings.HasPrefix(err.Error(), bad))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	base := mutation.Options{Strategy: mutation.ThrowError, TabWidth: 2}

	got, err := (&plan.Plan{}).Options(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	got, err = (&plan.Plan{Strategy: "keep_running", TabWidth: 4}).Options(base)
	require.NoError(t, err)
	assert.Equal(t, mutation.KeepRunning, got.Strategy)
	assert.Equal(t, 4, got.TabWidth)

	_, err = (&plan.Plan{Strategy: "nope"}).Options(base)
	require.Error(t, err)
}
