// Package mutation computes source edits anchored to syntax tree nodes,
// resolves overlapping edits, and splices the survivors into a new source.
//
// Callers register edits through the verbs on Mutation (Insert, Delete,
// Replace, ...). Each verb asks an Adapter for node geometry, freezes the
// result into an Action record and queues it. Process and Test then run the
// resolution pipeline over the queued records.
package mutation

import (
	"fmt"
	"strings"
)

// Type tags an Action record.
type Type string

// Action record types.
const (
	TypeInsert  Type = "insert"
	TypeDelete  Type = "delete"
	TypeReplace Type = "replace"
	TypeGroup   Type = "group"
	TypeNoop    Type = ""
)

// Action is an immutable edit record. Offsets refer to the original source.
type Action struct {
	// Type is the record tag.
	Type Type `json:"type"`

	// Start is the byte index where the edit begins (inclusive).
	Start int `json:"start"`

	// End is the byte index where the edit ends (exclusive).
	End int `json:"end"`

	// NewCode is the replacement text. Nil means the record contributes no
	// text; a pointer to "" deletes the range.
	NewCode *string `json:"newCode,omitempty"`

	// ConflictPosition orders zero-width records sharing a position.
	// Zero means unset.
	ConflictPosition int `json:"conflictPosition,omitempty"`

	// Actions holds the children of a group record.
	Actions []*Action `json:"actions,omitempty"`
}

// Text returns a pointer to s, for building records by hand.
func Text(s string) *string {
	return &s
}

// IsGroup reports whether the record is a container.
func (a *Action) IsGroup() bool {
	return a.Type == TypeGroup
}

// HasCode reports whether the record contributes text.
func (a *Action) HasCode() bool {
	return a.NewCode != nil
}

// Code returns the replacement text, or "" when there is none.
func (a *Action) Code() string {
	if a.NewCode == nil {
		return ""
	}
	return *a.NewCode
}

// IsZeroWidth reports whether the record covers no characters.
func (a *Action) IsZeroWidth() bool {
	return a.Start == a.End
}

func (a *Action) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d-%d]", displayType(a.Type), a.Start, a.End)
	if a.NewCode != nil {
		fmt.Fprintf(&b, ":%q", *a.NewCode)
	}
	if a.IsGroup() {
		fmt.Fprintf(&b, "(%d)", len(a.Actions))
	}
	return b.String()
}

func displayType(t Type) string {
	if t == TypeNoop {
		return "noop"
	}
	return string(t)
}

// newGroup wraps children into a group record bounded by its leaves.
func newGroup(children []*Action) *Action {
	start, end := bounds(children)
	return &Action{Type: TypeGroup, Start: start, End: end, Actions: children}
}

// bounds returns the min start and max end over the leaves of actions, or
// (0, 0) when there are none.
func bounds(actions []*Action) (int, int) {
	start, end, found := 0, 0, false
	walkLeaves(actions, func(a *Action) {
		if !found {
			start, end, found = a.Start, a.End, true
			return
		}
		start = min(start, a.Start)
		end = max(end, a.End)
	})
	return start, end
}

func walkLeaves(actions []*Action, fn func(*Action)) {
	for _, a := range actions {
		if a.IsGroup() {
			walkLeaves(a.Actions, fn)
			continue
		}
		fn(a)
	}
}

// Position selects which end of a range an insertion attaches to.
type Position int

const (
	// AtEnd inserts after the target range. It is the default.
	AtEnd Position = iota
	// AtBeginning inserts before the target range.
	AtBeginning
)

func (p Position) String() string {
	if p == AtBeginning {
		return "beginning"
	}
	return "end"
}

// ParsePosition parses "beginning" or "end". An empty string means AtEnd.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "", "end":
		return AtEnd, nil
	case "beginning":
		return AtBeginning, nil
	default:
		return AtEnd, fmt.Errorf("invalid position %q: must be beginning or end", s)
	}
}

// InsertOptions configures Insert.
type InsertOptions struct {
	// At picks the start or the end of the target range.
	At Position

	// To is a selector relative to the node. Empty targets the node itself.
	To string

	// AndComma joins the new text with ", " on the side facing the target.
	AndComma bool

	// AndSpace joins the new text with a space on the side facing the target.
	AndSpace bool

	// ConflictPosition orders inserts at the same offset. Lower values end
	// up further left.
	ConflictPosition int
}

// DeleteOptions configures Delete.
type DeleteOptions struct {
	// AndComma also removes the separating comma of a list element.
	AndComma bool
}

// RemoveOptions configures Remove.
type RemoveOptions struct {
	// AndComma also removes the separating comma of a list element.
	AndComma bool
}

// ReplaceOptions configures Replace.
type ReplaceOptions struct {
	// With is the replacement template.
	With string
}

// ReplaceWithOptions configures ReplaceWith.
type ReplaceWithOptions struct {
	// AutoIndent re-indents continuation lines to the node's indentation.
	// Nil means true.
	AutoIndent *bool
}

func (o ReplaceWithOptions) autoIndent() bool {
	return o.AutoIndent == nil || *o.AutoIndent
}

// IndentOptions configures Indent.
type IndentOptions struct {
	// TabSize is the number of indent levels to add. Zero means one.
	TabSize int
}

func (o IndentOptions) tabSize() int {
	if o.TabSize <= 0 {
		return 1
	}
	return o.TabSize
}
