package plan

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/nodemutation/internal/logging"
	"github.com/yaklabco/nodemutation/pkg/mutation"
	"github.com/yaklabco/nodemutation/pkg/selector"
)

// Execute replays the plan's steps against m. Node selectors resolve from
// root through a. The first failing step stops execution; records already
// added stay in m, except inside a failed group, which discards its own.
func Execute[T any](ctx context.Context, p *Plan, m *mutation.Mutation[T], a mutation.Adapter[T], root T) error {
	r := &runner[T]{ctx: ctx, m: m, a: a, root: root, logger: logging.FromContext(ctx)}
	return r.steps("steps", p.Steps)
}

type runner[T any] struct {
	ctx    context.Context
	m      *mutation.Mutation[T]
	a      mutation.Adapter[T]
	root   T
	logger *log.Logger
}

func (r *runner[T]) steps(prefix string, steps []Step) error {
	for i, s := range steps {
		if err := r.ctx.Err(); err != nil {
			return fmt.Errorf("execute plan: %w", err)
		}

		path := prefix + "[" + strconv.Itoa(i) + "]"
		r.logger.Debug("plan step", logging.FieldStep, path, logging.FieldVerb, string(s.Verb))
		if err := r.step(path, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner[T]) step(path string, s Step) error {
	if s.Verb == VerbGroup {
		return r.m.Group(func() error {
			return r.steps(path+".steps", s.Steps)
		})
	}

	node, err := r.node(s.Node)
	if err != nil {
		return &StepError{Path: path, Verb: s.Verb, Err: err}
	}

	if err := r.apply(node, s); err != nil {
		return fmt.Errorf("%s (%s): %w", path, s.Verb, err)
	}
	return nil
}

func (r *runner[T]) node(sel string) (T, error) {
	if sel == "" {
		return r.root, nil
	}

	var zero T
	v, err := r.a.ChildNodeValue(r.root, sel)
	if err != nil {
		return zero, fmt.Errorf("node %q: %w", sel, err)
	}
	if v.Kind != selector.KindNode {
		return zero, fmt.Errorf("node %q resolves to a %s, not a single node", sel, v.Kind)
	}
	return v.Node, nil
}

func (r *runner[T]) apply(node T, s Step) error {
	switch s.Verb {
	case VerbAppend:
		return r.m.Append(node, s.Code)
	case VerbPrepend:
		return r.m.Prepend(node, s.Code)
	case VerbInsert:
		at, err := mutation.ParsePosition(s.At)
		if err != nil {
			return err
		}
		return r.m.Insert(node, s.Code, mutation.InsertOptions{
			At:               at,
			To:               s.To,
			AndComma:         s.AndComma,
			AndSpace:         s.AndSpace,
			ConflictPosition: s.ConflictPosition,
		})
	case VerbDelete:
		return r.m.Delete(node, s.Selectors, mutation.DeleteOptions{AndComma: s.AndComma})
	case VerbRemove:
		return r.m.Remove(node, mutation.RemoveOptions{AndComma: s.AndComma})
	case VerbReplace:
		return r.m.Replace(node, s.Selectors, mutation.ReplaceOptions{With: s.With})
	case VerbReplaceWith:
		return r.m.ReplaceWith(node, s.Code, mutation.ReplaceWithOptions{AutoIndent: s.AutoIndent})
	case VerbIndent:
		return r.m.Indent(node, mutation.IndentOptions{TabSize: s.TabSize})
	case VerbNoop:
		return r.m.Noop(node)
	default:
		return fmt.Errorf("%w: unknown verb %q", ErrInvalidStep, s.Verb)
	}
}
