package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	Info("provider online", "address", "0xabc", "capacity_gb", 100)

	out := buf.String()
	if !strings.Contains(out, "provider online") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "address=0xabc") {
		t.Errorf("expected address attr in output, got %q", out)
	}
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("expected level marker in output, got %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json")

	Warn("allocation missing", "user", "0xdef")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["msg"] != "allocation missing" {
		t.Errorf("expected msg field, got %v", record["msg"])
	}
	if record["user"] != "0xdef" {
		t.Errorf("expected user field, got %v", record["user"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text")

	Debug("not logged")
	Info("not logged either")
	Warn("logged")

	out := buf.String()
	if strings.Contains(out, "not logged") {
		t.Errorf("expected debug/info suppressed at WARN level, got %q", out)
	}
	if !strings.Contains(out, "logged") {
		t.Errorf("expected warn message, got %q", out)
	}
}

func TestInvalidLevelIgnored(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	SetLevel("NOPE")
	Info("still works")

	if !strings.Contains(buf.String(), "still works") {
		t.Errorf("invalid level should not change configuration")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text")

	l := With("provider", "p-1")
	l.Info("cycle complete", "claimed", 3)

	out := buf.String()
	if !strings.Contains(out, "provider=p-1") {
		t.Errorf("expected pre-bound attr, got %q", out)
	}
	if !strings.Contains(out, "claimed=3") {
		t.Errorf("expected call attr, got %q", out)
	}
}
