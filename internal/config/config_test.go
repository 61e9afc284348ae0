package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/batchpaste/internal/extraction"
	"github.com/ginjaninja78/batchpaste/internal/schema"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batchpaste.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	path := writeConfig(t, "defaults:\n  requester: MARIA\n")

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}

	if cfg.Defaults.Requester != "MARIA" {
		t.Errorf("requester = %q", cfg.Defaults.Requester)
	}
	if cfg.Defaults.Plant != "0100" || cfg.Defaults.PurchasingGroup != "107" {
		t.Errorf("plant/group = %q/%q", cfg.Defaults.Plant, cfg.Defaults.PurchasingGroup)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("batch size = %d, want 10", cfg.BatchSize)
	}
	if cfg.ActiveSchema() != schema.PurchaseRequest {
		t.Errorf("schema = %v", cfg.ActiveSchema())
	}
	if cfg.Extraction.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("api key env = %q", cfg.Extraction.APIKeyEnv)
	}

	rc := cfg.RetryConfig()
	if rc.MaxAttempts != 5 || rc.BaseDelay != time.Second || rc.MaxDelay != 16*time.Second {
		t.Errorf("retry config = %+v", rc)
	}
}

func TestLoadMainConfigMissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadMainConfig("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Clipboard.Backend != "system" {
		t.Errorf("backend = %q", cfg.Clipboard.Backend)
	}
}

func TestLoadMainConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadMainConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
schema: os
batch_size: 25
columns:
  sc:
    itemNum: true
  os:
    lote: false
extraction:
  model: gemini-2.0-flash
  base_delay: 500ms
  max_attempts: 3
clipboard:
  backend: file
  file: /tmp/batch.tsv
`)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.ActiveSchema() != schema.WorkOrder {
		t.Errorf("schema = %v", cfg.ActiveSchema())
	}
	if cfg.BatchSize != 25 {
		t.Errorf("batch size = %d", cfg.BatchSize)
	}
	if cfg.Extraction.BaseDelay != 500*time.Millisecond || cfg.Extraction.MaxAttempts != 3 {
		t.Errorf("extraction = %+v", cfg.Extraction)
	}

	ov := cfg.ColumnOverrides()
	if !ov[schema.PurchaseRequest]["itemNum"] {
		t.Error("sc itemNum override lost")
	}
	if v, ok := ov[schema.WorkOrder]["lote"]; !ok || v {
		t.Error("os lote override lost")
	}
}

func TestLoadMainConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad schema", "schema: xx\n", "schema"},
		{"bad column", "columns:\n  sc:\n    nope: true\n", "unknown column"},
		{"bad date", "defaults:\n  delivery_date: \"31/01/2024\"\n", "DD.MM.YYYY"},
		{"file without path", "clipboard:\n  backend: file\n", "clipboard.file"},
		{"bad backend", "clipboard:\n  backend: pigeon\n", "backend"},
		{"bad level", "log_level: loud\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRecordDefaultsDeliveryDate(t *testing.T) {
	now := time.Date(2024, time.January, 25, 9, 0, 0, 0, time.UTC)

	cfg := defaultConfig()
	if got := cfg.RecordDefaults(now).DeliveryDate; got != "08.02.2024" {
		t.Errorf("computed date = %q, want 08.02.2024", got)
	}

	cfg.Defaults.DeliveryDate = "01.03.2024"
	if got := cfg.RecordDefaults(now).DeliveryDate; got != "01.03.2024" {
		t.Errorf("explicit date = %q", got)
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("BATCHPASTE_TEST_KEY", "  secret ")
	cfg := defaultConfig()
	cfg.Extraction.APIKeyEnv = "BATCHPASTE_TEST_KEY"
	if got := cfg.APIKey(); got != "secret" {
		t.Errorf("APIKey = %q", got)
	}
}

func defaultConfig() *MainConfig {
	var cfg MainConfig
	applyMainConfigDefaults(&cfg)
	return &cfg
}

func TestExtractionDefaultsFollowExtractor(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Extraction.Model != extraction.DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Extraction.Model, extraction.DefaultModel)
	}
	if got := cfg.RetryConfig(); got.MaxAttempts != extraction.DefaultRetry.MaxAttempts ||
		got.BaseDelay != extraction.DefaultRetry.BaseDelay ||
		got.MaxDelay != extraction.DefaultRetry.MaxDelay {
		t.Errorf("retry = %+v, want %+v", got, extraction.DefaultRetry)
	}
}
