package runner

import (
	"context"
	"errors"
	"fmt"
	goast "go/ast"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	mdast "github.com/yuin/goldmark/ast"

	"github.com/yaklabco/nodemutation/internal/logging"
	"github.com/yaklabco/nodemutation/pkg/adapter/golang"
	"github.com/yaklabco/nodemutation/pkg/adapter/markdown"
	"github.com/yaklabco/nodemutation/pkg/adapter/treesitter"
	"github.com/yaklabco/nodemutation/pkg/diff"
	"github.com/yaklabco/nodemutation/pkg/fsutil"
	"github.com/yaklabco/nodemutation/pkg/langdetect"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/plan"
)

// Processing error categories.
var (
	// ErrUnsupportedLanguage means no adapter handles the file.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrParse means the adapter could not parse the file.
	ErrParse = errors.New("parse failure")

	// ErrNoPlan means Options.Plan is nil.
	ErrNoPlan = errors.New("no plan given")
)

// FileResult is the outcome of replaying the plan over one file.
type FileResult struct {
	Language   langdetect.Language
	Affected   bool
	Conflicted bool

	// Original is the content that was read.
	Original []byte

	// NewSource is the rewritten content, set in ModeApply when Affected.
	NewSource []byte

	// Diff between Original and NewSource; nil when nothing changed.
	Diff *diff.Diff

	// Actions is the surviving action tree, set in ModeTest.
	Actions []*mutation.Action

	// Written reports whether the file was committed to disk.
	Written bool
}

// Changed reports whether the rewrite differs from the original.
func (r *FileResult) Changed() bool {
	return r != nil && r.Diff.HasChanges()
}

// ProcessFile reads path, replays the plan and, when opts.Write is set,
// commits the rewritten content.
func ProcessFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	ctx = logging.With(ctx, logging.FieldPath, path)

	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := ProcessSource(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}

	if opts.Write && opts.Mode == ModeApply && res.Affected {
		written, err := fsutil.Commit(ctx, snap, res.NewSource, opts.Backups)
		if err != nil {
			return res, err
		}
		res.Written = written
	}

	logging.FromContext(ctx).Debug("file processed",
		logging.FieldLanguage, res.Language.String(),
		logging.FieldAffected, res.Affected,
		logging.FieldConflicted, res.Conflicted,
		logging.FieldWrite, res.Written)
	return res, nil
}

// ProcessSource replays the plan over content. name is used for language
// detection and in diffs; it need not exist on disk.
func ProcessSource(ctx context.Context, name string, content []byte, opts Options) (*FileResult, error) {
	if opts.Plan == nil {
		return nil, ErrNoPlan
	}

	lang := opts.Language
	if lang == langdetect.Unknown {
		lang = langdetect.Detect(name, content)
	}

	mopts, err := opts.Plan.Options(opts.Mutation)
	if err != nil {
		return nil, err
	}
	if mopts.Logger == nil {
		mopts.Logger = logging.FromContext(ctx)
	}

	j := job{name: name, content: content, opts: opts, mopts: mopts}

	var res *FileResult
	switch lang {
	case langdetect.Go:
		f, err := golang.Parse(name, content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		res, err = run[goast.Node](ctx, j, f, f.Root())
		if err != nil {
			return nil, err
		}
	case langdetect.JavaScript, langdetect.TypeScript, langdetect.TSX:
		f, err := treesitter.Parse(ctx, content, grammarFor(lang))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		defer f.Close()
		res, err = run[*tree_sitter.Node](ctx, j, f, f.Root())
		if err != nil {
			return nil, err
		}
	case langdetect.Markdown:
		f, err := markdown.Parse(ctx, content, opts.Flavor)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		res, err = run[mdast.Node](ctx, j, f, f.Root())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
	}

	res.Language = lang
	return res, nil
}

func grammarFor(lang langdetect.Language) treesitter.Language {
	switch lang {
	case langdetect.TypeScript:
		return treesitter.TypeScript
	case langdetect.TSX:
		return treesitter.TSX
	default:
		return treesitter.JavaScript
	}
}

type job struct {
	name    string
	content []byte
	opts    Options
	mopts   mutation.Options
}

func run[T any](ctx context.Context, j job, a mutation.Adapter[T], root T) (*FileResult, error) {
	m := mutation.New[T](string(j.content), a, j.mopts)
	if err := plan.Execute[T](ctx, j.opts.Plan, m, a, root); err != nil {
		return nil, err
	}

	res := &FileResult{Original: j.content}

	if j.opts.Mode == ModeTest {
		tr, err := m.Test()
		if err != nil {
			return nil, err
		}
		res.Affected = tr.Affected
		res.Conflicted = tr.Conflicted
		res.Actions = tr.Actions
		return res, nil
	}

	pr, err := m.Process()
	if err != nil {
		return nil, err
	}
	res.Affected = pr.Affected
	res.Conflicted = pr.Conflicted
	if pr.Affected {
		res.NewSource = []byte(pr.NewSource)
		res.Diff = diff.Generate(j.name, j.content, res.NewSource)
	}
	return res, nil
}
