package cli

import (
	"encoding/json"
	"io"
)

// IsJSONOutput reports whether results should be emitted as JSON.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput writes v as indented JSON.
func WriteOutput(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
