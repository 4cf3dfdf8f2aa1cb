package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWriter(&buf, "debug", "json")
	l.Debug("export_done", "surfaces", 4)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if rec["msg"] != "export_done" || rec["surfaces"] != float64(4) {
		t.Fatalf("record = %v", rec)
	}
	if L() != l {
		t.Fatal("L() does not return the configured logger")
	}
}

func TestSetupWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWriter(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Fatalf("output = %q", out)
	}
}
