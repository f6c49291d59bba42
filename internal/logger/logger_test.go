package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		env, level string
		want       zapcore.Level
	}{
		{"prod", "", zapcore.InfoLevel},
		{"dev", "", zapcore.DebugLevel},
		{"local", "warn", zapcore.WarnLevel},
		{"docker", "error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		l, err := NewLogger(tt.env, tt.level, WithOutput(filepath.Join(t.TempDir(), "log")))
		if err != nil {
			t.Fatalf("%s/%s: %v", tt.env, tt.level, err)
		}
		if !l.Core().Enabled(tt.want) || (tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1)) {
			t.Errorf("%s/%s: level not %s", tt.env, tt.level, tt.want)
		}
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, err := NewLogger("staging", ""); err == nil {
		t.Error("expected error for unknown env")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for bad level")
	}
}

func TestNewLogger_NameAndOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocrdesk.log")
	l, err := NewLogger("prod", "info", WithName("ocrdesk"), WithOutput(path))
	if err != nil {
		t.Fatal(err)
	}
	l.Info("uploaded", zap.String("file", "scan.png"))
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	if entry["logger"] != "ocrdesk" || entry["msg"] != "uploaded" || entry["file"] != "scan.png" {
		t.Errorf("entry = %v", entry)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	ctx = WithFields(ctx, zap.String("request_id", "r1"))
	FromContext(ctx).Info("http_request")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "r1" {
		t.Errorf("request_id = %v", got)
	}
}
