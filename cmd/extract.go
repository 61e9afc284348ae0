// =============================================================================
// Batch Paste - Extract Command
// =============================================================================
//
// The 'extract' command sends request text and/or attachments to the model
// and writes the extracted items as JSON. The output can be fed back to
// 'transfer' or 'export' later without another model call.
//
// COMMAND USAGE:
//   batchpaste extract --text "..." [--attach file ...] [-o items.json]
//   echo "..." | batchpaste extract --text-file -
//
// OUTPUT FORMAT:
//   {"materiais": [{"descricao": "...", "quantidade": 2, "unidade": "PAR"}]}
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/records"
)

var (
	extractSource sourceFlags
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract line items from text, photos or PDFs",
	Long: `The extract command asks the configured model to read a material request
(free text, images or PDFs) and returns the line items it found: description,
quantity and unit.

The API key is read from the environment variable named in the configuration
(GEMINI_API_KEY by default). A .env file in the working directory is loaded
automatically.

Transient failures are retried with exponential backoff; an invalid key or a
permission error stops immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		extractSource.extract = true
		items, err := extractSource.loadItems(cmd.Context(), nil, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return writeItemsJSON(extractOutput, items, cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractSource.register(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write items JSON to this file (default: stdout)")
}

func writeItemsJSON(path string, items []records.Item, cmd *cobra.Command) error {
	data, err := records.MarshalDocument(items)
	if err != nil {
		return err
	}

	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write items: %w", err)
	}
	log.Info().Str("path", path).Int("items", len(items)).Msg("Items written")
	return nil
}
