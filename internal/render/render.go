// Package render turns scan results into terminal, JSON, YAML, or HTML
// output.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sloppy/internal/engine"
)

// Format selects an output encoding.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned for formats Render does not support.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatText, FormatJSON, FormatYAML, FormatHTML:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Render writes the result to w in the requested format.
func Render(w io.Writer, format Format, result *engine.Result) error {
	switch format {
	case FormatText:
		return writeText(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatHTML:
		return writeHTML(w, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, result *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, result *engine.Result) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}
