package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"table", FormatTable, false},
		{"", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

type testTable struct{}

func (testTable) Headers() []string { return []string{"NAME", "VALUE"} }
func (testTable) Rows() [][]string  { return [][]string{{"capacity", "100Gi"}} }

func TestPrint(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Print(&buf, FormatTable, testTable{}); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		if !strings.Contains(buf.String(), "capacity") {
			t.Errorf("missing row in output: %q", buf.String())
		}
	})

	t.Run("table falls back to JSON without a renderer", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Print(&buf, FormatTable, map[string]int{"artifacts": 3}); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		if !strings.Contains(buf.String(), `"artifacts": 3`) {
			t.Errorf("unexpected fallback output: %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Print(&buf, FormatJSON, map[string]int{"artifacts": 3}); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		if !strings.Contains(buf.String(), `"artifacts": 3`) {
			t.Errorf("unexpected JSON: %q", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Print(&buf, FormatYAML, map[string]int{"artifacts": 3}); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		if !strings.Contains(buf.String(), "artifacts: 3") {
			t.Errorf("unexpected YAML: %q", buf.String())
		}
	})
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer
	err := SimpleTable(&buf, [][2]string{
		{"Provider", "0xabcd"},
		{"Status", "online"},
	})
	if err != nil {
		t.Fatalf("simple table failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "0xabcd") || !strings.Contains(out, "online") {
		t.Errorf("missing values in output: %q", out)
	}
}
