package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/render"
)

var columnsSession sessionFlags

var columnsCmd = &cobra.Command{
	Use:   "columns [sc|os]",
	Short: "List a schema's columns and inclusion flags",
	Long: `The columns command prints the fixed column order of a layout together with
the inclusion flags that would apply (defaults, configuration overrides and
--include/--exclude). Structural columns are dropped from pasted rows when
excluded; every other excluded column is pasted blank.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			columnsSession.schema = args[0]
		}
		active, err := columnsSession.activeSchema(appConfig)
		if err != nil {
			return err
		}
		reg, err := columnsSession.registry(appConfig, active)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), %d columns\n", active, active.Code(), active.Width())
		fmt.Fprintln(cmd.OutOrStdout(), render.Columns(active, reg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringSliceVar(&columnsSession.include, "include", nil, "Columns to include (ids, repeatable)")
	columnsCmd.Flags().StringSliceVar(&columnsSession.exclude, "exclude", nil, "Columns to exclude (ids, repeatable)")
}
