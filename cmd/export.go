// =============================================================================
// Batch Paste - Export Command
// =============================================================================
//
// The 'export' command writes the generated table to a file instead of the
// clipboard.
//
// COMMAND USAGE:
//   batchpaste export items.json --format xlsx
//   batchpaste export items.csv --format tsv --schema os -o batch.tsv
//
// FORMATS:
//   xlsx : every column, labels as header, excluded columns greyed out
//   tsv  : all rows serialized exactly as the clipboard batches would be
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/exporter"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/selection"
	"github.com/ginjaninja78/batchpaste/pkg/utils"
)

var (
	exportSource  sourceFlags
	exportSession sessionFlags
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export [items-file...]",
	Short: "Save the generated table as XLSX or TSV",
	Long: `The export command builds the table for the active layout and saves it.
Without -o the file is named from export_name_format in export_dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format != "xlsx" && format != "tsv" {
			return fmt.Errorf("unknown export format %q (expected xlsx or tsv)", exportFormat)
		}

		items, err := exportSource.loadItems(cmd.Context(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no items to export")
		}

		// Export never touches the clipboard.
		exportSession.clipboard = "stdout"
		sess, err := exportSession.newSession(appConfig, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		sess.LoadItems(items)
		if err := exportSession.checkRows(sess, format == "xlsx"); err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			if err := utils.EnsureDir(appConfig.ExportDir); err != nil {
				return err
			}
			path = utils.OutputPath(appConfig.ExportDir, appConfig.ExportNameFormat, "."+format,
				map[string]string{"schema": sess.Status().Schema.Code()})
		}

		sess.View(func(t *records.Table, reg *selection.Registry, _ int) {
			if format == "xlsx" {
				err = exporter.WriteXLSX(path, t, reg)
			} else {
				err = exporter.WriteTSV(path, t, reg)
			}
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportSource.register(exportCmd)
	exportSession.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "Output format: xlsx or tsv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (default: generated in export_dir)")
}
