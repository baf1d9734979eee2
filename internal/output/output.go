// Package output renders taskflow data for the terminal: styled tables,
// one-line compact records, JSON, the month calendar and markdown.
package output

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/config"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

var formatNames = map[string]Format{
	"json":    FormatJSON,
	"table":   FormatTable,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// ParseFormat resolves a format name as accepted by TASKFLOW_OUTPUT.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// String returns the canonical name of f.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	case FormatTable:
		return "table"
	default:
		return "auto"
	}
}

// Detect picks the format from flags, then TASKFLOW_OUTPUT. Flags win over
// the environment; --json wins over --compact and --table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(config.OutputFormat()); ok {
		return f
	}
	return FormatTable
}
