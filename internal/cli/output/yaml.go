package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML renders data as two-space-indented YAML. The encoder buffers,
// so Close errors are surfaced rather than dropped.
func PrintYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
