package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List stored reports or print one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(appConfig.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			record, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", record.Report)
		}

		records, err := st.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reports stored yet")
			return nil
		}
		renderHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20,
		"Maximum number of reports to list (0 for all)")
}
