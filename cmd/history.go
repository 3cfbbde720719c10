package cmd

import (
	"github.com/spf13/cobra"
)

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past generations, newest first",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			history, err := workflow.History()
			if err != nil {
				return err
			}

			return ui.DisplayHistory(history)
		},
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
