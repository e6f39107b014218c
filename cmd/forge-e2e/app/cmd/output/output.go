package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Print writes v to w as JSON or YAML. Text falls back to JSON for structured values.
func Print(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, FormatText:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		_, err = w.Write(out)

		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintRaw writes a JSON document as is for JSON, or converted for YAML.
func PrintRaw(w io.Writer, format string, data []byte) error {
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		if format == FormatYAML {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	return Print(w, format, obj)
}
