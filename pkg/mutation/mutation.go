package mutation

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/nodemutation/internal/logging"
)

// DefaultTabWidth is the indent width used when none is configured.
const DefaultTabWidth = 2

// Options configures a Mutation. Zero fields fall back to Defaults.
type Options struct {
	// Strategy controls conflict handling.
	Strategy Strategy

	// TabWidth is the width of one indent level for Append, Prepend and Indent.
	TabWidth int

	// Logger receives debug output. Nil means the package default logger.
	Logger *log.Logger
}

//nolint:gochecknoglobals // Process-wide fallback configuration.
var (
	defaultsMu sync.RWMutex
	defaults   = Options{Strategy: ThrowError, TabWidth: DefaultTabWidth}
)

// Defaults returns the process-wide fallback options.
func Defaults() Options {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// SetDefaults replaces the process-wide fallback options. Zero fields keep
// their previous values.
func SetDefaults(opts Options) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults = opts.withFallback(defaults)
}

func (o Options) withFallback(fb Options) Options {
	if o.Strategy == 0 {
		o.Strategy = fb.Strategy
	}
	if o.TabWidth <= 0 {
		o.TabWidth = fb.TabWidth
	}
	if o.Logger == nil {
		o.Logger = fb.Logger
	}
	return o
}

// Mutation collects edit records for one source buffer and resolves them.
//
// A Mutation is not safe for concurrent use. Group swaps the record list for
// the duration of its callback, so no other verb may run from another
// goroutine meanwhile.
type Mutation[T any] struct {
	source  string
	adapter Adapter[T]
	opts    Options
	logger  *log.Logger
	actions []*Action
}

// New creates a Mutation over source.
func New[T any](source string, adapter Adapter[T], opts Options) *Mutation[T] {
	opts = opts.withFallback(Defaults())
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Mutation[T]{
		source:  source,
		adapter: adapter,
		opts:    opts,
		logger:  logger,
	}
}

// Source returns the original source.
func (m *Mutation[T]) Source() string {
	return m.source
}

// Strategy returns the effective strategy.
func (m *Mutation[T]) Strategy() Strategy {
	return m.opts.Strategy
}

// TabWidth returns the effective indent width.
func (m *Mutation[T]) TabWidth() int {
	return m.opts.TabWidth
}

// Actions returns a copy of the registered top-level records.
func (m *Mutation[T]) Actions() []*Action {
	return slices.Clone(m.actions)
}

// Add registers precomputed records.
func (m *Mutation[T]) Add(actions ...*Action) {
	m.actions = append(m.actions, actions...)
}

// Append inserts code at the bottom of the node's body.
func (m *Mutation[T]) Append(node T, code string) error {
	return m.register(node, code, appendKind[T]{})
}

// Prepend inserts code at the top of the node's body.
func (m *Mutation[T]) Prepend(node T, code string) error {
	return m.register(node, code, prependKind[T]{})
}

// Insert inserts code at the beginning or end of the node or one of its
// children.
func (m *Mutation[T]) Insert(node T, code string, opts InsertOptions) error {
	return m.register(node, code, insertKind[T]{opts: opts})
}

// Delete removes the union of the ranges named by selectors.
func (m *Mutation[T]) Delete(node T, selectors []string, opts DeleteOptions) error {
	return m.register(node, "", deleteKind[T]{selectors: selectors, opts: opts})
}

// Remove removes the node, including its line when it stands alone.
func (m *Mutation[T]) Remove(node T, opts RemoveOptions) error {
	return m.register(node, "", removeKind[T]{opts: opts})
}

// Replace replaces the union of the ranges named by selectors.
func (m *Mutation[T]) Replace(node T, selectors []string, opts ReplaceOptions) error {
	return m.register(node, opts.With, replaceKind[T]{selectors: selectors})
}

// ReplaceWith replaces the whole node.
func (m *Mutation[T]) ReplaceWith(node T, code string, opts ReplaceWithOptions) error {
	return m.register(node, code, replaceWithKind[T]{opts: opts})
}

// Indent indents every line of the node.
func (m *Mutation[T]) Indent(node T, opts IndentOptions) error {
	return m.register(node, "", indentKind[T]{opts: opts})
}

// Noop records the node without changing it.
func (m *Mutation[T]) Noop(node T) error {
	return m.register(node, "", noopKind[T]{})
}

func (m *Mutation[T]) register(node T, code string, k kind[T]) error {
	b := &builder[T]{
		adapter:  m.adapter,
		node:     node,
		code:     code,
		tabWidth: m.opts.TabWidth,
	}
	action, err := b.build(k)
	if err != nil {
		return err
	}
	m.logger.Debug("action built", logging.FieldAction, action.String())
	m.actions = append(m.actions, action)
	return nil
}

// Group collects every record registered by fn into one group record.
//
// fn may block and may call any verb, including Group. If fn returns an
// error or panics, the records it registered are discarded and the list is
// left exactly as it was before the call.
func (m *Mutation[T]) Group(fn func() error) error {
	outer := m.actions
	m.actions = nil
	done := false

	defer func() {
		inner := m.actions
		m.actions = outer
		if !done {
			m.logger.Debug("group discarded", logging.FieldActions, len(inner))
			return
		}
		group := newGroup(inner)
		m.logger.Debug("action built", logging.FieldAction, group.String())
		m.actions = append(m.actions, group)
	}()

	if err := fn(); err != nil {
		return err
	}
	done = true
	return nil
}

// ProcessResult is returned by Process.
type ProcessResult struct {
	// Affected reports whether any record was registered.
	Affected bool `json:"affected"`

	// Conflicted reports whether any record was dropped.
	Conflicted bool `json:"conflicted"`

	// NewSource is the rewritten source, set only when Affected.
	NewSource string `json:"newSource,omitempty"`
}

// TestResult is returned by Test.
type TestResult struct {
	Affected   bool      `json:"affected"`
	Conflicted bool      `json:"conflicted"`
	Actions    []*Action `json:"actions"`
}

// Process resolves the registered records and returns the rewritten source.
// The original source is never modified.
func (m *Mutation[T]) Process() (*ProcessResult, error) {
	res, err := m.resolve()
	if err != nil {
		return nil, err
	}
	if !res.affected {
		return &ProcessResult{}, nil
	}

	leaves := flatten(res.actions)
	sortActions(leaves)
	if err := validateActions(leaves, len(m.source)); err != nil {
		return nil, err
	}

	return &ProcessResult{
		Affected:   true,
		Conflicted: res.conflicted,
		NewSource:  splice(m.source, leaves),
	}, nil
}

// Test resolves the registered records without rewriting anything and
// returns the surviving record tree.
func (m *Mutation[T]) Test() (*TestResult, error) {
	res, err := m.resolve()
	if err != nil {
		return nil, err
	}
	if !res.affected {
		return &TestResult{Actions: []*Action{}}, nil
	}
	sortTree(res.actions)
	return &TestResult{
		Affected:   true,
		Conflicted: res.conflicted,
		Actions:    res.actions,
	}, nil
}
