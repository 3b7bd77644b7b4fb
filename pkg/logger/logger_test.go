package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupReleaseWritesJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	SetupWriter(&buf, "release", "info")

	log.Info().Str("source", "file").Msg("Dataset loaded")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "Dataset loaded" || entry["source"] != "file" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetLevelMapsModes(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"release", zerolog.InfoLevel},
		{"test", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"shouting", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		SetupWriter(&bytes.Buffer{}, "release", tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Errorf("SetLevel(%q) global level = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupDebugUsesConsole(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "debug")
	Log.Debug().Msg("hello")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("debug mode should not emit JSON: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("missing message in %q", buf.String())
	}
}
