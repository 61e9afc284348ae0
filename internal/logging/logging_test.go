package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupWritesJSONToNonTerminal(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Setup(&buf, "warn", false)

	log.Info().Msg("hidden")
	log.Warn().Str("schema", "sc").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "shown" || entry["schema"] != "sc" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupVerboseOverridesLevel(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Setup(&buf, "error", true)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BATCHPASTE_ENV_CHECK=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BATCHPASTE_ENV_CHECK", "")
	os.Unsetenv("BATCHPASTE_ENV_CHECK")

	if !LoadEnv(path) {
		t.Fatal("LoadEnv reported failure")
	}
	if got := os.Getenv("BATCHPASTE_ENV_CHECK"); got != "loaded" {
		t.Errorf("env = %q", got)
	}
	if LoadEnv(filepath.Join(t.TempDir(), "missing.env")) {
		t.Error("missing file should report false")
	}
}
