// =============================================================================
// Batch Paste - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (batchpaste)
//   ├── extractCmd  (batchpaste extract)
//   ├── transferCmd (batchpaste transfer)
//   ├── exportCmd   (batchpaste export)
//   ├── columnsCmd  (batchpaste columns)
//   └── versionCmd  (batchpaste version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads .env into the environment (API keys)
//   2. Loads the main configuration file
//   3. Sets up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/config"
	"github.com/ginjaninja78/batchpaste/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file. Empty means
// batchpaste.yaml in the working directory, if present.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// appConfig is loaded in PersistentPreRunE.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "batchpaste",
	Short: "Batch Paste - Stage extracted material lists for batched ERP grid pastes",
	Long: `Batch Paste turns material requests (free text, photos, PDFs or spreadsheets)
into ERP grid rows and copies them to the clipboard in fixed-size batches, so
they can be pasted into a purchase request or work order screen that only
accepts a few rows at a time.

Key Features:
  - Two row layouts: purchase request (sc) and work order (os)
  - Item extraction through the Gemini API, with retries
  - Per-column inclusion that keeps pasted fields aligned with the grid
  - Batch cursor that only advances when the clipboard write succeeds

Example Usage:
  batchpaste extract --text "2 pares de luva, 10 m de cabo" -o items.json
  batchpaste transfer items.json
  batchpaste transfer --extract --attach pedido.jpg --schema os
  batchpaste export items.json --format xlsx`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envLoaded := logging.LoadEnv()

		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load main config: %w", err)
		}
		appConfig = cfg

		logging.Setup(os.Stderr, cfg.LogLevel, verbose)
		log.Debug().Bool("dotenv", envLoaded).Str("schema", cfg.Schema).Int("batch_size", cfg.BatchSize).Msg("Configuration loaded")
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the main configuration file (default is ./batchpaste.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
