package reporter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for output formats the reporter cannot render.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

// constructors maps each format to its Reporter.
//
//nolint:gochecknoglobals // Static lookup table.
var constructors = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatTable:   func(o Options) Reporter { return NewTableReporter(o) },
	FormatJSON:    func(o Options) Reporter { return NewJSONReporter(o) },
	FormatDiff:    func(o Options) Reporter { return NewDiffReporter(o) },
	FormatSummary: func(o Options) Reporter { return NewSummaryReporter(o) },
}

// Formats lists the known formats in help order.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatJSON, FormatDiff, FormatSummary}
}

// ParseFormat resolves a case-insensitive format name. The empty string
// selects text.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FormatText, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("%w %q; valid formats: %s", ErrUnknownFormat, name, formatList())
	}
	return f, nil
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f names a known format.
func (f Format) IsValid() bool {
	_, ok := constructors[f]
	return ok
}

func formatList() string {
	names := make([]string, 0, len(constructors))
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
