package mutation

import (
	"fmt"
	"strings"
)

// Strategy is a bitmask controlling conflict handling.
type Strategy uint8

const (
	// KeepRunning drops conflicting records and carries on.
	KeepRunning Strategy = 1 << iota
	// ThrowError makes Process and Test fail on any conflict.
	ThrowError
	// AllowInsertAtSamePosition lets zero-width inserts share an offset.
	AllowInsertAtSamePosition
)

//nolint:gochecknoglobals // Lookup table.
var strategyNames = []struct {
	flag Strategy
	name string
}{
	{KeepRunning, "keep_running"},
	{ThrowError, "throw_error"},
	{AllowInsertAtSamePosition, "allow_insert_at_same_position"},
}

// Has reports whether every bit of flag is set.
func (s Strategy) Has(flag Strategy) bool {
	return s != 0 && s&flag == flag
}

func (s Strategy) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, entry := range strategyNames {
		if s.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseStrategy parses flag names joined by "|" or ",", for example
// "keep_running|allow_insert_at_same_position".
func ParseStrategy(s string) (Strategy, error) {
	var out Strategy
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("invalid strategy %q: empty", s)
	}
	for _, field := range fields {
		name := strings.ToLower(strings.TrimSpace(field))
		name = strings.ReplaceAll(name, "-", "_")
		found := false
		for _, entry := range strategyNames {
			if entry.name == name {
				out |= entry.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("invalid strategy %q: unknown flag %q", s, field)
		}
	}
	return out, nil
}
