package mutation

import (
	"cmp"
	"math"
	"slices"

	"github.com/yaklabco/nodemutation/internal/logging"
)

type resolution struct {
	affected   bool
	conflicted bool
	actions    []*Action
}

// resolve runs the shared pipeline of Process and Test: optimize groups,
// flatten, sort, detect conflicts, apply the strategy and filter.
func (m *Mutation[T]) resolve() (*resolution, error) {
	actions := optimize(m.actions)
	leaves := flatten(actions)
	if len(leaves) == 0 {
		return &resolution{}, nil
	}

	sortActions(leaves)
	conflicts := m.detectConflicts(leaves)
	if len(conflicts) > 0 && m.opts.Strategy.Has(ThrowError) {
		return nil, &ConflictError{Actions: conflicts}
	}

	dropped := make(map[*Action]struct{}, len(conflicts))
	for _, a := range conflicts {
		dropped[a] = struct{}{}
	}

	return &resolution{
		affected:   true,
		conflicted: len(conflicts) > 0,
		actions:    filter(actions, dropped),
	}, nil
}

// optimize collapses every group holding exactly one child into that child.
// Records are not modified; groups that change are rebuilt.
func optimize(actions []*Action) []*Action {
	out := make([]*Action, 0, len(actions))
	for _, a := range actions {
		if !a.IsGroup() {
			out = append(out, a)
			continue
		}
		if len(a.Actions) == 1 {
			out = append(out, optimize(a.Actions)...)
			continue
		}
		out = append(out, newGroup(optimize(a.Actions)))
	}
	return out
}

// flatten replaces every group with its leaves, in order.
func flatten(actions []*Action) []*Action {
	var out []*Action
	walkLeaves(actions, func(a *Action) {
		out = append(out, a)
	})
	return out
}

// compareActions orders by start, then end, then conflict position. An unset
// position sorts after every set one, which keeps the order total when set
// and unset records share an offset.
func compareActions(a, b *Action) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(positionKey(a), positionKey(b))
}

func positionKey(a *Action) int {
	if a.ConflictPosition == 0 {
		return math.MaxInt
	}
	return a.ConflictPosition
}

func sortActions(actions []*Action) {
	slices.SortStableFunc(actions, compareActions)
}

// sortTree sorts a record tree in place, level by level.
func sortTree(actions []*Action) {
	sortActions(actions)
	for _, a := range actions {
		if a.IsGroup() {
			sortTree(a.Actions)
		}
	}
}

// detectConflicts scans sorted leaves from the right. A record conflicts
// when it ends after the start of the nearest kept record to its right.
func (m *Mutation[T]) detectConflicts(sorted []*Action) []*Action {
	if len(sorted) == 0 {
		return nil
	}

	allowSame := m.opts.Strategy.Has(AllowInsertAtSamePosition)
	kept := sorted[len(sorted)-1]
	var conflicts []*Action

	for j := len(sorted) - 2; j >= 0; j-- {
		a := sorted[j]
		if a.End > kept.Start || (!allowSame && sameInsertPosition(a, kept)) {
			m.logger.Debug("action conflicted",
				logging.FieldAction, a.String(),
				logging.FieldKept, kept.String())
			conflicts = append(conflicts, a)
			continue
		}
		kept = a
	}
	return conflicts
}

func sameInsertPosition(a, b *Action) bool {
	return a.Type == TypeInsert && b.Type == TypeInsert &&
		a.IsZeroWidth() && b.IsZeroWidth() && a.Start == b.Start
}

// filter removes dropped leaves from a record tree. Groups that lose all
// their children are removed; other groups are rebuilt with fresh bounds.
func filter(actions []*Action, dropped map[*Action]struct{}) []*Action {
	out := make([]*Action, 0, len(actions))
	for _, a := range actions {
		if a.IsGroup() {
			children := filter(a.Actions, dropped)
			if len(children) == 0 {
				continue
			}
			out = append(out, newGroup(children))
			continue
		}
		if _, ok := dropped[a]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}
