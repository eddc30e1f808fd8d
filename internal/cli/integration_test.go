package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/nodemutation/internal/cli"
	"github.com/yaklabco/nodemutation/pkg/fsutil"
	"github.com/yaklabco/nodemutation/pkg/reporter"
)

const mainSource = `package main

import "fmt"

func main() {
	fmt.Println("hi")
}
`

const printfPlan = `steps:
  - verb: replace
    node: Decls.1.Body.List.0.X
    selectors: [Fun.Sel]
    with: Printf
`

// overlapPlan replaces a call and, inside it, the selector.
const overlapPlan = `steps:
  - verb: replace_with
    node: Decls.1.Body.List.0.X
    code: 'log.Print("hi")'
  - verb: replace
    node: Decls.1.Body.List.0.X
    selectors: [Fun.Sel]
    with: Printf
`

type fixture struct {
	dir    string
	file   string
	plan   string
	config string
}

func newFixture(t *testing.T, planYAML string) fixture {
	t.Helper()

	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		file:   filepath.Join(dir, "main.go"),
		plan:   filepath.Join(dir, "plan.yml"),
		config: filepath.Join(dir, "config.yml"),
	}
	require.NoError(t, os.WriteFile(f.file, []byte(mainSource), 0o644))
	require.NoError(t, os.WriteFile(f.plan, []byte(planYAML), 0o644))
	require.NoError(t, os.WriteFile(f.config, []byte("log_level: error\n"), 0o644))
	return f
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_ApplyPrintsSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	out, _, err := runCLI(t, "", "apply", "--config", f.config, "--plan", f.plan, f.file)
	require.NoError(t, err)

	assert.Equal(t, strings.Replace(mainSource, "Println", "Printf", 1), out)

	content, err := os.ReadFile(f.file)
	require.NoError(t, err)
	assert.Equal(t, mainSource, string(content), "apply without --write must not touch the file")
}

func TestIntegration_ApplyWrite(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	out, _, err := runCLI(t, "", "apply", "--config", f.config, "--color", "never",
		"--plan", f.plan, "--write", "--backup", f.file)
	require.NoError(t, err)
	assert.Contains(t, out, "written (+1 -1)")

	content, err := os.ReadFile(f.file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `fmt.Printf("hi")`)

	backup, err := os.ReadFile(fsutil.BackupPath(f.file, fsutil.BackupModeSidecar))
	require.NoError(t, err)
	assert.Equal(t, mainSource, string(backup))
}

func TestIntegration_ApplyDiff(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	out, _, err := runCLI(t, "", "apply", "--config", f.config, "--color", "never",
		"--plan", f.plan, "--format", "diff", f.dir)
	require.NoError(t, err)

	assert.Contains(t, out, "diff --git")
	assert.Contains(t, out, "-\tfmt.Println(\"hi\")")
	assert.Contains(t, out, "+\tfmt.Printf(\"hi\")")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)")
}

func TestIntegration_ApplyStdin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	out, _, err := runCLI(t, mainSource, "apply", "--config", f.config,
		"--plan", f.plan, "--stdin-filename", "main.go", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `fmt.Printf("hi")`)
}

func TestIntegration_TestJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	out, _, err := runCLI(t, "", "test", "--config", f.config, "--plan", f.plan, "--format", "json", f.file)
	require.NoError(t, err)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 1)
	require.Len(t, decoded.Files[0].Actions, 1)
	assert.Equal(t, "Printf", decoded.Files[0].Actions[0].Code())
	assert.False(t, decoded.Files[0].Changed)
}

func TestIntegration_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "throw_error fails", args: nil, wantCode: cli.ExitConflicts},
		{name: "keep_running tolerated", args: []string{"--strategy", "keep_running"}, wantCode: cli.ExitSuccess},
		{name: "keep_running strict", args: []string{"--strategy", "keep_running", "--strict"}, wantCode: cli.ExitConflicts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, overlapPlan)
			args := append([]string{"apply", "--config", f.config, "--plan", f.plan, "--format", "summary"}, tt.args...)
			_, _, err := runCLI(t, "", append(args, f.file)...)
			assert.Equal(t, tt.wantCode, cli.ExitCode(err), "err = %v", err)
		})
	}
}

func TestIntegration_UsageErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, printfPlan)
	badPlan := filepath.Join(f.dir, "bad.yml")
	require.NoError(t, os.WriteFile(badPlan, []byte("steps:\n  - verb: explode\n"), 0o644))
	badConfig := filepath.Join(f.dir, "bad-config.yml")
	require.NoError(t, os.WriteFile(badConfig, []byte("strategy: sometimes\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing plan", args: []string{"apply", "--config", f.config, f.file}, want: cli.ExitInvalidUsage},
		{name: "unknown flag", args: []string{"apply", "--nope"}, want: cli.ExitInvalidUsage},
		{name: "unknown language", args: []string{"apply", "--config", f.config, "-p", f.plan, "--language", "cobol", f.file}, want: cli.ExitInvalidUsage},
		{name: "invalid plan", args: []string{"apply", "--config", f.config, "-p", badPlan, f.file}, want: cli.ExitConfigError},
		{name: "invalid config", args: []string{"apply", "--config", badConfig, "-p", f.plan, f.file}, want: cli.ExitConfigError},
		{name: "missing path", args: []string{"apply", "--config", f.config, "-p", f.plan, filepath.Join(f.dir, "nope.go")}, want: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "err = %v", err)
		})
	}
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), ".nodemutation.yml")

	_, _, err := runCLI(t, "", "init", "--output", out)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# nodemutation configuration.")
	assert.Contains(t, string(content), "strategy: throw_error")

	_, _, err = runCLI(t, "", "init", "--output", out)
	require.Error(t, err)

	_, _, err = runCLI(t, "", "init", "--output", out, "--force")
	require.NoError(t, err)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc")
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "", "apply", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--plan")
	assert.Contains(t, out, "Global Flags:")
}
