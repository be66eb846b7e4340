package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONWithSessionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")

	logger, err := New(Options{Path: path})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	logger.Error("generation failed", zap.String("prompt", "hi"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "generation failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if id, _ := entry["session_id"].(string); len(id) != 36 {
		t.Errorf("session_id = %v, want a UUID", entry["session_id"])
	}
}

func TestNew_DebugOnlyWhenVerbose(t *testing.T) {
	dir := t.TempDir()

	quietPath := filepath.Join(dir, "quiet.log")
	quiet, err := New(Options{Path: quietPath})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	quiet.Debug("hidden")
	_ = quiet.Sync()

	loudPath := filepath.Join(dir, "loud.log")
	loud, err := New(Options{Path: loudPath, Verbose: true})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	loud.Debug("shown")
	_ = loud.Sync()

	if data, _ := os.ReadFile(quietPath); strings.Contains(string(data), "hidden") {
		t.Error("debug entry written without verbose")
	}
	if data, _ := os.ReadFile(loudPath); !strings.Contains(string(data), "shown") {
		t.Error("debug entry missing with verbose")
	}
}

func TestNew_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	if _, err := os.Stat(filepath.Join(home, ".geminichat", "geminichat.log")); err != nil {
		t.Errorf("expected log file in config dir: %v", err)
	}
}

func TestNewOrNop_BadPath(t *testing.T) {
	logger := NewOrNop(Options{Path: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if logger == nil {
		t.Fatal("NewOrNop() returned nil")
	}
	logger.Info("does not panic")
}
