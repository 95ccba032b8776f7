package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("JSON output carries build fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, "debug", FormatJSON)

		l.Info().Str("notice_id", "abc").Msg("hello")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
		}
		for _, key := range []string{"pid", "go_version", "git_revision", "caller", "time"} {
			if _, ok := entry[key]; !ok {
				t.Errorf("Expected field %q in %v", key, entry)
			}
		}
		if entry["notice_id"] != "abc" {
			t.Errorf("Expected notice_id 'abc', got %v", entry["notice_id"])
		}
	})

	t.Run("Level is applied", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, "WARN", FormatJSON)

		if l.GetLevel() != zerolog.WarnLevel {
			t.Errorf("Expected warn level, got %s", l.GetLevel())
		}
		l.Info().Msg("dropped")
		if buf.Len() != 0 {
			t.Errorf("Expected info line to be dropped, got %q", buf.String())
		}
	})

	t.Run("Invalid level falls back to info", func(t *testing.T) {
		l := NewWithWriter(&bytes.Buffer{}, "loud", FormatConsole)
		if l.GetLevel() != zerolog.InfoLevel {
			t.Errorf("Expected info level, got %s", l.GetLevel())
		}
	})

	t.Run("Console output is not JSON", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, "info", FormatConsole)
		l.Info().Msg("hello")

		if json.Valid(buf.Bytes()) {
			t.Errorf("Expected console formatted line, got %q", buf.String())
		}
	})
}
