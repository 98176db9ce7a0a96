package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/netlayer/internal/config"
)

func TestInitWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := initTo(&config.Config{AppName: "netlayer", LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("initTo: %v", err)
	}

	log.InfoObj("fetch done", "result", map[string]any{"status_code": 200})
	log.DebugObj("hidden", "x", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "fetch done" || entry["app"] != "netlayer" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
	result, ok := entry["result"].(map[string]any)
	if !ok || result["status_code"] != float64(200) {
		t.Fatalf("unexpected result field %v", entry["result"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"debug": "debug", "WARNING": "warn", "error": "error", "": "info", "bogus": "info"}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
