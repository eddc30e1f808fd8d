package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/nodemutation/internal/configloader"
	"github.com/yaklabco/nodemutation/internal/logging"
	"github.com/yaklabco/nodemutation/pkg/config"
	"github.com/yaklabco/nodemutation/pkg/fsutil"
	"github.com/yaklabco/nodemutation/pkg/langdetect"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/plan"
	"github.com/yaklabco/nodemutation/pkg/reporter"
	"github.com/yaklabco/nodemutation/pkg/runner"
)

// stdinPath is the path argument that reads the source from standard input.
const stdinPath = "-"

// ErrNoPlan is returned when --plan is missing.
var ErrNoPlan = errors.New("a plan is required; pass --plan FILE")

// ErrStdinTerminal is returned when "-" is given but stdin is a terminal.
var ErrStdinTerminal = errors.New("refusing to read source from a terminal; pipe a file into stdin")

// runFlags are shared by apply and test.
type runFlags struct {
	plan           string
	format         string
	language       string
	flavor         string
	strategy       string
	tabWidth       int
	ignore         []string
	stdinFilename  string
	followSymlinks bool
	compact        bool
	includeSource  bool
}

func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	cmd.Flags().StringVarP(&flags.plan, "plan", "p", "", "mutation plan file (required)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+formatNames())
	cmd.Flags().StringVar(&flags.language, "language", "", "only process this language: go, javascript, typescript, tsx, markdown")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.strategy, "strategy", "", "conflict strategy, e.g. keep_running|allow_insert_at_same_position")
	cmd.Flags().IntVar(&flags.tabWidth, "tab-width", 0, "spaces per indent level")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "stdin", "file name used for language detection when reading stdin")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of files processed concurrently (0 = auto)")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "exit 1 when conflicting actions were dropped")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
	cmd.Flags().BoolVar(&flags.includeSource, "include-source", false, "include rewritten source in JSON output")
}

// invocation is everything resolved before files are touched.
type invocation struct {
	cfg     *config.Config
	workDir string
	color   string
	opts    runner.Options
}

func resolve(cmd *cobra.Command, args []string, cfg *config.Config, flags *runFlags, mode runner.Mode) (*invocation, error) {
	ctx := cmd.Context()
	logger := logging.Default()

	if flags.plan == "" {
		return nil, withCode(ExitInvalidUsage, ErrNoPlan)
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = flags.strategy
	}
	if cmd.Flags().Changed("tab-width") {
		cfg.TabWidth = flags.tabWidth
	}
	cfg.Ignore = flags.ignore

	color, err := cmd.Flags().GetString("color")
	if err != nil {
		color = "auto"
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = color
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, withCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return nil, withCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}
	final := loaded.Config

	if !debugEnabled(cmd) {
		logging.SetLevel(final.LogLevel)
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	p, err := plan.Load(flags.plan)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}

	lang := langdetect.Parse(flags.language)
	if flags.language != "" && lang == langdetect.Unknown {
		return nil, withCode(ExitInvalidUsage, fmt.Errorf("unknown language %q", flags.language))
	}

	strategy, err := mutation.ParseStrategy(final.Strategy)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}

	backupMode := fsutil.BackupModeSidecar
	if final.Backups.Mode == string(fsutil.BackupModeNone) {
		backupMode = fsutil.BackupModeNone
	}

	logger.Debug("configuration resolved",
		logging.FieldPlan, flags.plan,
		logging.FieldStrategy, final.Strategy,
		logging.FieldTabWidth, final.TabWidth,
		logging.FieldJobs, final.Jobs,
		logging.FieldWrite, final.Write,
	)

	return &invocation{
		cfg:     final,
		workDir: workDir,
		color:   final.Color,
		opts: runner.Options{
			Paths:          args,
			WorkingDir:     workDir,
			Language:       lang,
			ExcludeGlobs:   final.Ignore,
			FollowSymlinks: flags.followSymlinks,
			Jobs:           final.Jobs,
			Plan:           p,
			Mutation: mutation.Options{
				Strategy: strategy,
				TabWidth: final.TabWidth,
				Logger:   logger,
			},
			Flavor: string(final.Flavor),
			Mode:   mode,
			Write:  final.Write && mode == runner.ModeApply,
			Backups: fsutil.BackupConfig{
				Enabled: final.BackupsEnabled(),
				Mode:    backupMode,
			},
		},
	}, nil
}

func debugEnabled(cmd *cobra.Command) bool {
	debug, err := cmd.Flags().GetBool("debug")
	return err == nil && debug
}

// execute runs the plan over the arguments and reports the outcome.
func execute(cmd *cobra.Command, args []string, cfg *config.Config, flags *runFlags, mode runner.Mode) error {
	inv, err := resolve(cmd, args, cfg, flags, mode)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), logging.Default())

	var result *runner.Result
	if len(args) == 1 && args[0] == stdinPath {
		result, err = runStdin(ctx, cmd.InOrStdin(), flags.stdinFilename, inv.opts)
	} else {
		result, err = runner.Run(ctx, inv.opts)
	}
	if err != nil {
		return classifyRunError(err)
	}

	if printSource(cmd.OutOrStdout(), inv, result) {
		return exitStatus(result, inv.cfg.Strict)
	}

	format, err := reporter.ParseFormat(string(inv.cfg.Format))
	if err != nil {
		return withCode(ExitInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:        cmd.OutOrStdout(),
		Format:        format,
		Color:         inv.color,
		ShowSummary:   true,
		Compact:       flags.compact,
		IncludeSource: flags.includeSource,
		WorkingDir:    inv.workDir,
	})
	if err != nil {
		return withCode(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return exitStatus(result, inv.cfg.Strict)
}

func classifyRunError(err error) error {
	switch {
	case errors.Is(err, ErrStdinTerminal):
		return withCode(ExitInvalidUsage, err)
	case errors.Is(err, context.Canceled):
		return withCode(ExitInternalError, err)
	default:
		return withCode(ExitIOError, err)
	}
}

func exitStatus(result *runner.Result, strict bool) error {
	code := ExitCodeFromResult(result, strict)
	if code == ExitSuccess {
		return nil
	}
	if errs := result.Errors(); len(errs) > 0 {
		return withCode(code, errors.Join(errs...))
	}
	return withCode(code, ErrConflicts)
}

// runStdin processes a single source read from r. The result is never written back.
func runStdin(ctx context.Context, r io.Reader, name string, opts runner.Options) (*runner.Result, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, ErrStdinTerminal
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	opts.Write = false
	res, err := runner.ProcessSource(ctx, name, content, opts)

	result := &runner.Result{}
	result.Stats.FilesDiscovered = 1
	result.Add(runner.FileOutcome{Path: name, Result: res, Error: err})
	return result, nil
}

// printSource writes the rewritten source of a single file when no report
// format was asked for and nothing is written back. It reports whether it
// handled the output.
func printSource(w io.Writer, inv *invocation, result *runner.Result) bool {
	if inv.opts.Mode != runner.ModeApply || inv.opts.Write || inv.cfg.Format != config.FormatText {
		return false
	}
	if len(result.Files) != 1 || result.Files[0].Error != nil {
		return false
	}

	res := result.Files[0].Result
	out := res.Original
	if res.Affected {
		out = res.NewSource
	}
	_, _ = w.Write(out)
	return true
}

func formatNames() string {
	names := make([]string, 0, len(reporter.Formats()))
	for _, f := range reporter.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
