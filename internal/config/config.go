// =============================================================================
// Batch Paste - Configuration Module
// =============================================================================
//
// This module loads the main configuration file (batchpaste.yaml) and turns
// it into the values the rest of the tool consumes: row defaults, the batch
// size, initial column inclusion, extraction retry settings and the clipboard
// backend.
//
// LOOKUP:
//   - An explicit --config path must exist.
//   - The default path (./batchpaste.yaml) is optional. When it is missing
//     every setting takes its default value.
//
// SECRETS:
//   The extraction API key is never stored in the file. The file names the
//   environment variable holding it (default GEMINI_API_KEY); a .env file in
//   the working directory is loaded into the environment at startup.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/batchpaste/internal/batch"
	"github.com/ginjaninja78/batchpaste/internal/extraction"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/retry"
	"github.com/ginjaninja78/batchpaste/internal/schema"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "batchpaste.yaml"

// DateLayout is the ERP date format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// ROW DEFAULTS
	// =========================================================================

	// Defaults are copied into every generated row.
	Defaults DefaultsConfig `yaml:"defaults"`

	// =========================================================================
	// TRANSFER SETTINGS
	// =========================================================================

	// Schema is the initially active layout: "sc" (purchase request) or
	// "os" (work order).
	// Default: "sc"
	Schema string `yaml:"schema"`

	// BatchSize is the number of rows per clipboard copy. Values below 1
	// fall back to the default batch size.
	// Default: 10
	BatchSize int `yaml:"batch_size"`

	// Columns overrides the default inclusion per schema, keyed by schema
	// code then column id.
	//
	// Example:
	//   columns:
	//     sc:
	//       itemNum: true
	//       preco: false
	Columns map[string]map[string]bool `yaml:"columns"`

	// =========================================================================
	// EXTRACTION SETTINGS
	// =========================================================================

	Extraction ExtractionConfig `yaml:"extraction"`

	// =========================================================================
	// CLIPBOARD SETTINGS
	// =========================================================================

	Clipboard ClipboardConfig `yaml:"clipboard"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	// ExportDir is where XLSX/TSV exports are written.
	// Default: "./exports"
	ExportDir string `yaml:"export_dir"`

	// ExportNameFormat defines export file names. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {schema}    - Schema code (sc/os)
	// Default: "{schema}_{timestamp}_{uuid}"
	ExportNameFormat string `yaml:"export_name_format"`
}

// DefaultsConfig mirrors records.Defaults plus the delivery lead time.
type DefaultsConfig struct {
	Requester       string `yaml:"requester"`
	Plant           string `yaml:"plant"`
	PurchasingGroup string `yaml:"purchasing_group"`

	// DeliveryDate is an explicit DD.MM.YYYY date. When empty the date is
	// today plus DeliveryLeadDays.
	DeliveryDate     string `yaml:"delivery_date"`
	DeliveryLeadDays int    `yaml:"delivery_lead_days"`

	CodeC        string `yaml:"code_c"`
	MaterialBase string `yaml:"material_base"`
	Price        string `yaml:"price"`
}

// ExtractionConfig configures the model call and its retry policy.
type ExtractionConfig struct {
	// Model is the Gemini model name.
	// Default: extraction.DefaultModel
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	// Default: "GEMINI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env"`

	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	Jitter      bool          `yaml:"jitter"`
}

// ClipboardConfig selects where batches are written.
type ClipboardConfig struct {
	// Backend is "system", "stdout" or "file".
	// Default: "system"
	Backend string `yaml:"backend"`

	// File is the target path for the "file" backend.
	File string `yaml:"file"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. Empty means
//     DefaultPath, which may be absent.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	optional := configPath == ""
	if optional {
		configPath = DefaultPath
	}

	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// No file: defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	d := &config.Defaults
	if d.Plant == "" {
		d.Plant = "0100"
	}
	if d.PurchasingGroup == "" {
		d.PurchasingGroup = "107"
	}
	if d.DeliveryLeadDays == 0 {
		d.DeliveryLeadDays = 14
	}
	if d.CodeC == "" {
		d.CodeC = "K"
	}
	if d.MaterialBase == "" {
		d.MaterialBase = "Reposi"
	}
	if d.Price == "" {
		d.Price = "1,00"
	}

	if config.Schema == "" {
		config.Schema = schema.PurchaseRequest.Code()
	}
	if config.BatchSize < 1 {
		config.BatchSize = batch.DefaultSize
	}

	e := &config.Extraction
	if e.Model == "" {
		e.Model = extraction.DefaultModel
	}
	if e.APIKeyEnv == "" {
		e.APIKeyEnv = "GEMINI_API_KEY"
	}
	if e.MaxAttempts == 0 {
		e.MaxAttempts = extraction.DefaultRetry.MaxAttempts
	}
	if e.BaseDelay == 0 {
		e.BaseDelay = extraction.DefaultRetry.BaseDelay
	}
	if e.MaxDelay == 0 {
		e.MaxDelay = extraction.DefaultRetry.MaxDelay
	}
	if e.Timeout == 0 {
		e.Timeout = extraction.DefaultRetry.Timeout
	}

	if config.Clipboard.Backend == "" {
		config.Clipboard.Backend = "system"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ExportDir == "" {
		config.ExportDir = "./exports"
	}
	if config.ExportNameFormat == "" {
		config.ExportNameFormat = "{schema}_{timestamp}_{uuid}"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := schema.Parse(config.Schema); err != nil {
		return err
	}

	for code, flags := range config.Columns {
		s, err := schema.Parse(code)
		if err != nil {
			return fmt.Errorf("columns: %w", err)
		}
		for id := range flags {
			if _, ok := s.Lookup(id); !ok {
				return fmt.Errorf("columns.%s: unknown column %q", code, id)
			}
		}
	}

	if date := config.Defaults.DeliveryDate; date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fmt.Errorf("defaults.delivery_date %q is not DD.MM.YYYY", date)
		}
	}

	switch strings.ToLower(config.Clipboard.Backend) {
	case "system", "stdout":
	case "file":
		if config.Clipboard.File == "" {
			return fmt.Errorf("clipboard.file is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown clipboard backend %q", config.Clipboard.Backend)
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if config.Extraction.MaxAttempts < 1 {
		return fmt.Errorf("extraction.max_attempts must be at least 1")
	}

	return nil
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// RecordDefaults resolves the row defaults, computing the delivery date
// relative to now when none is configured.
func (c *MainConfig) RecordDefaults(now time.Time) records.Defaults {
	d := c.Defaults
	date := d.DeliveryDate
	if date == "" {
		date = now.AddDate(0, 0, d.DeliveryLeadDays).Format(DateLayout)
	}
	return records.Defaults{
		Requester:       d.Requester,
		Plant:           d.Plant,
		PurchasingGroup: d.PurchasingGroup,
		DeliveryDate:    date,
		CodeC:           d.CodeC,
		MaterialBase:    d.MaterialBase,
		Price:           d.Price,
	}
}

// ActiveSchema returns the configured initial schema.
func (c *MainConfig) ActiveSchema() schema.Schema {
	s, err := schema.Parse(c.Schema)
	if err != nil {
		return schema.PurchaseRequest
	}
	return s
}

// ColumnOverrides returns the per-schema inclusion overrides.
func (c *MainConfig) ColumnOverrides() map[schema.Schema]map[string]bool {
	out := make(map[schema.Schema]map[string]bool, len(c.Columns))
	for code, flags := range c.Columns {
		s, err := schema.Parse(code)
		if err != nil {
			continue
		}
		out[s] = flags
	}
	return out
}

// RetryConfig converts the extraction settings for the retry package.
func (c *MainConfig) RetryConfig() retry.Config {
	e := c.Extraction
	return retry.Config{
		MaxAttempts: e.MaxAttempts,
		BaseDelay:   e.BaseDelay,
		MaxDelay:    e.MaxDelay,
		Timeout:     e.Timeout,
		Jitter:      e.Jitter,
	}
}

// APIKey reads the extraction key from the configured environment variable.
func (c *MainConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.Extraction.APIKeyEnv))
}
