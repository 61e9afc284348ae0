// =============================================================================
// Batch Paste - Command Wiring
// =============================================================================
//
// Helpers shared by the subcommands: where items come from (import files or
// the extraction service) and how a Session is assembled from configuration.
//
// ITEM SOURCES (first match wins):
//   1. --extract, or any of --text / --text-file / --attach: call the model
//   2. a positional file argument: import JSON, CSV, TSV or XLSX
//   3. neither: an empty table (useful to inspect columns)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/clipboard"
	"github.com/ginjaninja78/batchpaste/internal/config"
	"github.com/ginjaninja78/batchpaste/internal/extraction"
	"github.com/ginjaninja78/batchpaste/internal/importer"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
	"github.com/ginjaninja78/batchpaste/internal/session"
	"github.com/ginjaninja78/batchpaste/internal/validation"
)

// =============================================================================
// ITEM SOURCE FLAGS
// =============================================================================

// sourceFlags are the flags of every command that needs items.
type sourceFlags struct {
	extract     bool
	text        string
	textFile    string
	attachments []string
	sheet       string
	delimiter   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.extract, "extract", false, "Extract items with the model instead of reading a file")
	cmd.Flags().StringVar(&f.text, "text", "", "Free-form request text to extract items from")
	cmd.Flags().StringVar(&f.textFile, "text-file", "", "Read request text from a file (- for stdin)")
	cmd.Flags().StringSliceVar(&f.attachments, "attach", nil, "Image or PDF to extract items from (repeatable)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet to import (default: first sheet)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter (default: detected)")
}

func (f *sourceFlags) wantsExtraction() bool {
	return f.extract || f.text != "" || f.textFile != "" || len(f.attachments) > 0
}

// loadItems resolves the item source for a command.
func (f *sourceFlags) loadItems(ctx context.Context, args []string, stdin io.Reader) ([]records.Item, error) {
	switch {
	case f.wantsExtraction():
		return f.runExtraction(ctx, stdin)
	case len(args) > 0:
		var all []records.Item
		for _, path := range args {
			items, err := importer.Load(path, importer.Options{Sheet: f.sheet, Delimiter: f.delimiter})
			if err != nil {
				return nil, err
			}
			log.Info().Str("file", path).Int("items", len(items)).Msg("Imported items")
			all = append(all, items...)
		}
		return all, nil
	default:
		return nil, nil
	}
}

func (f *sourceFlags) runExtraction(ctx context.Context, stdin io.Reader) ([]records.Item, error) {
	text := f.text
	if f.textFile != "" {
		var data []byte
		var err error
		if f.textFile == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(f.textFile)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read request text: %w", err)
		}
		text = strings.TrimSpace(strings.Join([]string{text, string(data)}, "\n"))
	}

	attachments, err := extraction.LoadAttachments(ctx, f.attachments)
	if err != nil {
		return nil, err
	}

	req := extraction.Request{Text: text, Attachments: attachments}
	if req.Empty() {
		return nil, extraction.ErrEmptyRequest
	}

	extractor, err := newExtractor(ctx, appConfig)
	if err != nil {
		return nil, err
	}

	log.Info().Int("chars", len(text)).Int("attachments", len(attachments)).Str("model", appConfig.Extraction.Model).Msg("Extracting items")
	return extractor.Extract(ctx, req)
}

// newExtractor builds the retrying Gemini extractor from configuration.
func newExtractor(ctx context.Context, cfg *config.MainConfig) (extraction.Extractor, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: set %s in the environment or .env", extraction.ErrMissingAPIKey, cfg.Extraction.APIKeyEnv)
	}
	g, err := extraction.NewGemini(ctx, key, cfg.Extraction.Model, extraction.GeminiOptions{})
	if err != nil {
		return nil, err
	}
	return extraction.Retrying{Inner: g, Config: cfg.RetryConfig()}, nil
}

// =============================================================================
// SESSION ASSEMBLY
// =============================================================================

// sessionFlags override configuration per invocation.
type sessionFlags struct {
	schema    string
	batchSize int
	clipboard string
	clipFile  string
	include   []string
	exclude   []string
	force     bool
	strict    bool
	errorsLog string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.schema, "schema", "", "Row layout: sc (purchase request) or os (work order)")
	cmd.Flags().IntVar(&f.batchSize, "batch", 0, "Rows per clipboard copy (default from config)")
	cmd.Flags().StringVar(&f.clipboard, "clipboard", "", "Clipboard backend: system, stdout or file")
	cmd.Flags().StringVar(&f.clipFile, "clipboard-file", "", "Target file for the file clipboard backend")
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "Columns to include (ids, repeatable)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Columns to exclude (ids, repeatable)")
	cmd.Flags().BoolVar(&f.force, "force", false, "Continue even when rows would break the paste")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Treat row warnings (missing description or quantity) as errors")
	cmd.Flags().StringVar(&f.errorsLog, "errors-log", "", "Write row problems to this file")
}

// activeSchema returns the flag schema or the configured one.
func (f *sessionFlags) activeSchema(cfg *config.MainConfig) (schema.Schema, error) {
	if f.schema == "" {
		return cfg.ActiveSchema(), nil
	}
	return schema.Parse(f.schema)
}

// registry applies configuration overrides, then --include / --exclude for
// the active schema.
func (f *sessionFlags) registry(cfg *config.MainConfig, active schema.Schema) (*selection.Registry, error) {
	reg := selection.NewRegistry()
	for s, flags := range cfg.ColumnOverrides() {
		reg.Apply(s, flags)
	}

	for _, group := range []struct {
		ids     []string
		include bool
	}{{f.include, true}, {f.exclude, false}} {
		for _, id := range group.ids {
			if _, ok := active.Lookup(id); !ok {
				return nil, fmt.Errorf("unknown column %q for %s", id, active.Code())
			}
			reg.Set(active, id, group.include)
		}
	}
	return reg, nil
}

// newSession assembles a Session for the active schema.
func (f *sessionFlags) newSession(cfg *config.MainConfig, stdout io.Writer) (*session.Session, error) {
	active, err := f.activeSchema(cfg)
	if err != nil {
		return nil, err
	}
	reg, err := f.registry(cfg, active)
	if err != nil {
		return nil, err
	}

	backend, path := cfg.Clipboard.Backend, cfg.Clipboard.File
	if f.clipboard != "" {
		backend = f.clipboard
	}
	if f.clipFile != "" {
		path = f.clipFile
	}
	clip, err := clipboard.New(backend, path, stdout)
	if err != nil {
		return nil, err
	}

	size := cfg.BatchSize
	if f.batchSize != 0 {
		size = f.batchSize
	}

	return session.New(session.Options{
		Builder:   records.NewBuilder(cfg.RecordDefaults(time.Now())),
		Registry:  reg,
		Clipboard: clip,
		Schema:    active,
		BatchSize: size,
	}), nil
}

// checkRows logs every problem in the session's table, optionally writes
// them to --errors-log, and fails on errors unless --force was given.
// checkExcluded also inspects excluded columns, for outputs that carry
// every column.
func (f *sessionFlags) checkRows(sess *session.Session, checkExcluded bool) error {
	opts := validation.ValidationOptions{
		TreatWarningsAsErrors: f.strict,
		CheckExcluded:         checkExcluded,
	}
	var res *validation.ValidationResult
	sess.View(func(t *records.Table, reg *selection.Registry, _ int) {
		res = validation.NewValidatorWithOptions(reg, opts).ValidateAll(t)
	})

	for _, e := range res.Fatal() {
		log.Error().Int("row", e.Row).Str("column", e.Column).Str("rule", e.Rule).Msg(e.Message)
	}
	for _, e := range res.Warnings() {
		log.Warn().Int("row", e.Row).Str("column", e.Column).Str("rule", e.Rule).Msg(e.Message)
	}

	if f.errorsLog != "" && len(res.Errors) > 0 {
		if err := validation.WriteErrorLog(res.Errors, f.errorsLog); err != nil {
			return err
		}
		log.Info().Str("path", f.errorsLog).Int("problems", len(res.Errors)).Msg("Row problems written")
	}

	if res.IsValid || f.force {
		return nil
	}
	if res.ErrorCount == 0 {
		return fmt.Errorf("%d row warning(s) with --strict; fix them or use --force", res.WarningCount)
	}
	return fmt.Errorf("%d row problem(s) would break the paste; fix them or use --force", res.ErrorCount)
}
