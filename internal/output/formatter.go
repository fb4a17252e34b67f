// Package output provides formatters for displaying volumes in various
// formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/voldctl/internal/vold"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML stream, one document per volume.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Formatter formats volumes for output.
type Formatter interface {
	// FormatVolume formats a single volume.
	FormatVolume(v vold.Volume) (string, error)

	// FormatVolumeList formats a list of volumes.
	FormatVolumeList(vols []vold.Volume) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}

// record is the serialized form of a volume. It carries both the numeric
// state and its label so scripts can match on either.
type record struct {
	Label      string `json:"label" yaml:"label"`
	Path       string `json:"path" yaml:"path"`
	State      int    `json:"state" yaml:"state"`
	StateLabel string `json:"stateLabel" yaml:"stateLabel"`
}

func toRecord(v vold.Volume) record {
	return record{
		Label:      v.Label,
		Path:       v.Path,
		State:      int(v.State),
		StateLabel: v.StateLabel(),
	}
}
