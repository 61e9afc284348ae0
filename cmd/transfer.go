// =============================================================================
// Batch Paste - Transfer Command
// =============================================================================
//
// The 'transfer' command builds the table for the active schema and hands
// it to the clipboard one batch at a time.
//
// COMMAND USAGE:
//   batchpaste transfer items.json               interactive console
//   batchpaste transfer --extract --attach a.jpg extract, then console
//   batchpaste transfer items.csv --print        every batch to stdout
//
// INTERACTIVE FLOW:
//   1. Press ENTER: the next batch goes to the clipboard
//   2. Paste into the ERP grid and press ENTER there to open new lines
//   3. Come back and press ENTER again for the following batch
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/console"
	"github.com/ginjaninja78/batchpaste/internal/logging"
	"github.com/ginjaninja78/batchpaste/internal/session"
)

var (
	transferSource  sourceFlags
	transferSession sessionFlags
	transferPrint   bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer [items-file...]",
	Short: "Copy items to the clipboard in ERP-sized batches",
	Long: `The transfer command turns items into rows of the active layout and copies
them to the clipboard in batches (10 rows by default). Each row is a
tab-separated line; excluded columns are left blank so the paste stays
aligned with the ERP grid.

Items come from import files (JSON, CSV, TSV, XLSX) or, with --extract or
--text/--attach, from the extraction model.

With --print every batch is written to stdout and the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		items, err := transferSource.loadItems(ctx, args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if transferPrint {
			transferSession.clipboard = "stdout"
		}
		sess, err := transferSession.newSession(appConfig, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		sess.LoadItems(items)
		if err := transferSession.checkRows(sess, false); err != nil {
			return err
		}

		if transferPrint {
			return printAllBatches(cmd, sess)
		}

		out := cmd.OutOrStdout()
		con := console.New(sess, out, console.Options{
			Color:            logging.IsTerminal(out) && !color.NoColor,
			ExportDir:        appConfig.ExportDir,
			ExportNameFormat: appConfig.ExportNameFormat,
		})
		return con.Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferSource.register(transferCmd)
	transferSession.register(transferCmd)
	transferCmd.Flags().BoolVar(&transferPrint, "print", false, "Write every batch to stdout instead of starting the console")
}

// printAllBatches drains the session through its clipboard.
func printAllBatches(cmd *cobra.Command, sess *session.Session) error {
	for {
		res, err := sess.CopyNextBatch(cmd.Context())
		if err != nil {
			return err
		}
		if res.Rows == 0 || res.Done {
			break
		}
	}
	_, err := fmt.Fprintln(cmd.ErrOrStderr(), console.StatusLine(sess.Status()))
	return err
}
