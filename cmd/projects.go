package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// projectsCmd represents the projects command.
var projectsCmd = newProjectsCmd()

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the project registry",
		RunE: func(_ *cobra.Command, _ []string) error {
			projects, err := workflow.Projects()
			if err != nil {
				return err
			}

			return ui.DisplayProjects(projects)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a project directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.AddProject(args[0], m.Path(args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a project from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.RemoveProject(args[0])
		},
	})

	return cmd
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
