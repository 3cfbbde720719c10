package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeworks/promptsmith/internal/domain"
)

var generateFilesFlag []string
var generateLastFlag bool
var generateTemplateFlag string
var generateStdoutFlag bool
var generateOpenFlag bool

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <project>",
		Short: "Generate a prompt without the interactive picker",
		Long: `Generate renders a prompt for an explicit file selection and writes it to
the output directory. An unchanged selection with unchanged file contents is
served from the output cache without re-reading the files.

Selections come from --files (repeatable) or --last, which reuses the files
of the previous generation for the project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]

			selection := generateFilesFlag
			if generateLastFlag {
				projects, err := workflow.Projects()
				if err != nil {
					return err
				}

				proj, ok := projects[project]
				if !ok {
					return fmt.Errorf("unknown project %q", project)
				}

				selection = proj.LastFiles
			}

			if len(selection) == 0 {
				return fmt.Errorf("nothing selected; pass --files or --last")
			}

			result, err := workflow.Generate(domain.GenerateArgs{
				Project:   project,
				Selection: selection,
				Template:  generateTemplateFlag,
			})
			if err != nil {
				return err
			}

			if generateStdoutFlag {
				cmd.Print(result.Text)

				return nil
			}

			if err := ui.DisplayGeneration(result); err != nil {
				return err
			}

			if generateOpenFlag {
				return workflow.OpenArtifact(result.Artifact)
			}

			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&generateFilesFlag, "files", "f", nil, "relative file path to include (can be repeated)")
	cmd.Flags().BoolVarP(&generateLastFlag, "last", "l", false, "reuse the previous selection for this project")
	cmd.Flags().StringVarP(&generateTemplateFlag, "template", "t", "", "template name to render with")
	cmd.Flags().BoolVar(&generateStdoutFlag, "stdout", false, "print the prompt to stdout instead of a summary")
	cmd.Flags().BoolVarP(&generateOpenFlag, "open", "o", false, "open the generated prompt after writing it")

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
