package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevelMapping(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(Config{Level: tt.level, Output: &bytes.Buffer{}})
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level %q mapped to %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info message emitted at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn message missing at warn level")
	}
}

func TestComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Config{Output: &buf}), "watch")

	logger.Info().Msg("rebuild complete")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if event["component"] != "watch" {
		t.Errorf("component = %v, want %q", event["component"], "watch")
	}
	if event["message"] != "rebuild complete" {
		t.Errorf("message = %v, want %q", event["message"], "rebuild complete")
	}
}
