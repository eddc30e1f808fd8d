// Package plan reads mutation plans: YAML documents listing the verbs to
// replay against a file. A plan is language neutral; node and selector
// strings are resolved by whichever adapter parsed the file.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/nodemutation/pkg/mutation"
)

// ErrInvalidStep is wrapped by every error describing a bad step.
var ErrInvalidStep = errors.New("invalid plan step")

// Verb names a mutation verb.
type Verb string

// Verbs accepted in a plan.
const (
	VerbAppend      Verb = "append"
	VerbPrepend     Verb = "prepend"
	VerbInsert      Verb = "insert"
	VerbDelete      Verb = "delete"
	VerbRemove      Verb = "remove"
	VerbReplace     Verb = "replace"
	VerbReplaceWith Verb = "replace_with"
	VerbIndent      Verb = "indent"
	VerbNoop        Verb = "noop"
	VerbGroup       Verb = "group"
)

// Plan is a parsed mutation plan.
type Plan struct {
	// Strategy overrides the configured conflict strategy when set.
	Strategy string `yaml:"strategy,omitempty"`

	// TabWidth overrides the configured tab width when positive.
	TabWidth int `yaml:"tab_width,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one verb invocation. Which fields apply depends on Verb.
type Step struct {
	Verb Verb `yaml:"verb"`

	// Node selects the target node from the file root. Empty is the root.
	Node string `yaml:"node,omitempty"`

	// Code is the template for append, prepend, insert and replace_with.
	Code string `yaml:"code,omitempty"`

	// Selectors name the child ranges for delete and replace.
	Selectors []string `yaml:"selectors,omitempty"`

	// With is the replacement template for replace.
	With string `yaml:"with,omitempty"`

	// At is "beginning" or "end" for insert.
	At string `yaml:"at,omitempty"`

	// To is the insert target relative to Node.
	To string `yaml:"to,omitempty"`

	AndComma         bool  `yaml:"and_comma,omitempty"`
	AndSpace         bool  `yaml:"and_space,omitempty"`
	ConflictPosition int   `yaml:"conflict_position,omitempty"`
	AutoIndent       *bool `yaml:"auto_indent,omitempty"`
	TabSize          int   `yaml:"tab_size,omitempty"`

	// Steps are the members of a group.
	Steps []Step `yaml:"steps,omitempty"`
}

// StepError reports a problem with the step at Path, such as "steps[2].steps[0]".
type StepError struct {
	Path string
	Verb Verb
	Err  error
}

func (e *StepError) Error() string {
	if e.Verb == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Path, e.Verb, e.Err)
}

// Unwrap exposes both ErrInvalidStep and the underlying cause.
func (e *StepError) Unwrap() []error {
	return []error{ErrInvalidStep, e.Err}
}

// Parse decodes and validates a plan. Unknown keys are rejected.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	p := &Plan{}
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse plan: empty document")
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads and parses the plan at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks the plan settings and every step.
func (p *Plan) Validate() error {
	var errs []error

	if p.Strategy != "" {
		if _, err := mutation.ParseStrategy(p.Strategy); err != nil {
			errs = append(errs, err)
		}
	}
	if p.TabWidth < 0 {
		errs = append(errs, fmt.Errorf("tab_width must be positive, got %d", p.TabWidth))
	}
	if len(p.Steps) == 0 {
		errs = append(errs, errors.New("plan has no steps"))
	}
	errs = append(errs, validateSteps("steps", p.Steps)...)

	return errors.Join(errs...)
}

// Options overlays the plan settings onto base.
func (p *Plan) Options(base mutation.Options) (mutation.Options, error) {
	if p.Strategy != "" {
		strategy, err := mutation.ParseStrategy(p.Strategy)
		if err != nil {
			return base, err
		}
		base.Strategy = strategy
	}
	if p.TabWidth > 0 {
		base.TabWidth = p.TabWidth
	}
	return base, nil
}

// Count returns the number of steps, group members included.
func (p *Plan) Count() int {
	return countSteps(p.Steps)
}

func countSteps(steps []Step) int {
	n := len(steps)
	for _, s := range steps {
		n += countSteps(s.Steps)
	}
	return n
}

func validateSteps(prefix string, steps []Step) []error {
	var errs []error
	for i, s := range steps {
		path := prefix + "[" + strconv.Itoa(i) + "]"
		if err := s.validate(); err != nil {
			errs = append(errs, &StepError{Path: path, Verb: s.Verb, Err: err})
		}
		if s.Verb == VerbGroup {
			errs = append(errs, validateSteps(path+".steps", s.Steps)...)
		}
	}
	return errs
}

func (s Step) validate() error {
	if s.Verb != VerbGroup && len(s.Steps) > 0 {
		return errors.New("only group takes steps")
	}

	switch s.Verb {
	case VerbAppend, VerbPrepend, VerbReplaceWith:
		if s.Code == "" {
			return errors.New("code is required")
		}
	case VerbInsert:
		if s.Code == "" {
			return errors.New("code is required")
		}
		if _, err := mutation.ParsePosition(s.At); err != nil {
			return err
		}
	case VerbDelete, VerbReplace:
		if len(s.Selectors) == 0 {
			return errors.New("selectors are required")
		}
	case VerbIndent:
		if s.TabSize < 0 {
			return fmt.Errorf("tab_size must not be negative, got %d", s.TabSize)
		}
	case VerbRemove, VerbNoop:
	case VerbGroup:
		if len(s.Steps) == 0 {
			return errors.New("group has no steps")
		}
	case "":
		return errors.New("verb is required")
	default:
		return fmt.Errorf("unknown verb %q", s.Verb)
	}
	return nil
}
