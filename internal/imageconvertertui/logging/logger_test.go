package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Info("test message", map[string]string{"key": "value"})

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Errorf("Expected INFO level, got: %s", output)
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected message, got: %s", output)
	}
	if !strings.Contains(output, "\"key\":\"value\"") {
		t.Errorf("Expected data, got: %s", output)
	}

	// Verify JSON validity
	var entry LogEntry
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Errorf("Invalid JSON output: %v", err)
	}
}

func TestLogger_DebugGated(t *testing.T) {
	var quiet, verbose bytes.Buffer
	New(&quiet, false).Debug("hidden", nil)
	New(&verbose, true).Debug("shown", nil)

	if quiet.Len() != 0 {
		t.Errorf("Expected no debug output, got: %s", quiet.String())
	}
	if !strings.Contains(verbose.String(), "DEBUG") {
		t.Errorf("Expected DEBUG entry, got: %s", verbose.String())
	}
}

func TestLogger_ErrorData(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Error("batch failed", errors.New("decode two.png: unexpected EOF"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if entry.Data != "decode two.png: unexpected EOF" {
		t.Errorf("Expected error text as data, got %v", entry.Data)
	}
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	l.Info("no panic", nil)
	l.Debug("no panic", nil)
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	for _, msg := range []string{"first", "second"} {
		l, f, err := Open(path, false)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		l.Warn(msg, nil)
		f.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %s", len(lines), data)
	}
	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Level != LevelWarn || entry.Message != "second" {
		t.Errorf("Unexpected entry %+v", entry)
	}
}
