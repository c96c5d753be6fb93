// Package output renders CLI command results as a table, JSON, or YAML.
// The table form is the human default; JSON and YAML exist for scripting
// against the status command.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format selects how command output is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a --output flag value to a Format. The empty string
// means the table default; "yml" is accepted as a YAML alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

func (f Format) String() string {
	return string(f)
}

// Print renders data in the requested format. Table output requires data to
// implement TableRenderer; anything else falls back to JSON so a caller
// never loses output over a missing table shape.
func Print(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		return PrintJSON(w, data)
	case FormatYAML:
		return PrintYAML(w, data)
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(w, renderer)
		}
		return PrintJSON(w, data)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
