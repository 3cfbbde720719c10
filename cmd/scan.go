package cmd

import (
	"github.com/spf13/cobra"
)

var scanProposeFlag bool
var scanApplyFlag bool

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <project>",
		Short: "Scan a project and list its visible files",
		Long: `Scan walks the project tree under its current filter rules (ignore file,
keep patterns, blacklist) and lists what a generation would see.

With --propose, directories whose visible file count crosses the
auto-blacklist threshold are listed; --apply adds them to the project
blacklist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]

			if scanProposeFlag || scanApplyFlag {
				proposals, err := workflow.ProposeBlacklist(project)
				if err != nil {
					return err
				}

				for _, dir := range proposals {
					cmd.Printf("propose blacklist: %s\n", dir)
				}

				if scanApplyFlag && len(proposals) > 0 {
					return workflow.ApplyBlacklist(project, proposals)
				}

				return nil
			}

			res, _, err := workflow.Scan(project)
			if err != nil {
				return err
			}

			return ui.DisplayScan(project, res)
		},
	}
	cmd.Flags().BoolVar(&scanProposeFlag, "propose", false, "list directories crossing the auto-blacklist threshold")
	cmd.Flags().BoolVar(&scanApplyFlag, "apply", false, "apply the proposed blacklist entries")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
