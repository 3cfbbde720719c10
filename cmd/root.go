// Package cmd provides the root command and CLI setup for promptsmith.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgeworks/promptsmith/internal/adapter"
	"github.com/forgeworks/promptsmith/internal/config"
	"github.com/forgeworks/promptsmith/internal/controller"
	"github.com/forgeworks/promptsmith/internal/domain"
)

var cfg *config.Config
var logger *slog.Logger
var workflow domain.Workflow
var ui controller.UI

var configFlag string
var verboseFlag bool
var rootTemplateFlag string
var rootOpenFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptsmith [project]",
		Short: "Selection-aware code prompt generator",
		Long: `Promptsmith turns a project directory into a bounded text prompt: a filtered
file tree, the contents of the files you pick, and a template stitched
together into one artifact.

Run with a project name to pick files interactively; previews are rendered
in the background while you change the selection. Use the subcommands for
non-interactive scanning and generation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			return runInteractive(cmd, args[0])
		},
	}
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to promptsmith.yaml (optional)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVarP(&rootTemplateFlag, "template", "t", "", "template name to render with")
	cmd.Flags().BoolVarP(&rootOpenFlag, "open", "o", false, "open the generated prompt after writing it")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	}

	return cmd
}

// setup loads configuration and wires the workflow and UI. It runs before
// every command.
func setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path := configFlag
	if path == "" {
		path = "promptsmith.yaml"
	}

	var err error

	cfg, err = config.Load(path)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDirs(); err != nil {
		return err
	}

	workflow = domain.NewWorkflow(adapter.NewLocalProjectFS(), cfg, logger)
	ui = controller.NewUI(cmd, controller.IsTTY(os.Stdout))

	return nil
}

// runInteractive scans the project, lets the user pick files with a live
// preview, and generates on confirmation. Directories crossing the
// auto-blacklist threshold are blacklisted before the picker opens.
func runInteractive(cmd *cobra.Command, project string) error {
	if err := autoBlacklist(cmd, project); err != nil {
		return err
	}

	res, proj, err := workflow.Scan(project)
	if err != nil {
		return err
	}

	files := res.Files()
	if len(files) == 0 {
		return fmt.Errorf("no visible files in project %q", project)
	}

	preview := domain.NewPreviewWorker(func(req domain.PreviewRequest) (string, error) {
		return workflow.Preview(domain.PreviewArgs{
			Project:   project,
			Selection: req.Selection,
			Template:  rootTemplateFlag,
		})
	}, logger)

	pick, err := ui.PickSelection(controller.PickArgs{
		Project: project,
		Files:   files,
		Initial: proj.LastFiles,
		Preview: preview,
	})
	if err != nil {
		return err
	}

	if !pick.Confirmed || len(pick.Selection) == 0 {
		return nil
	}

	result, err := workflow.Generate(domain.GenerateArgs{
		Project:   project,
		Selection: pick.Selection,
		Template:  rootTemplateFlag,
	})
	if err != nil {
		return err
	}

	if err := ui.DisplayGeneration(result); err != nil {
		return err
	}

	if rootOpenFlag {
		return workflow.OpenArtifact(result.Artifact)
	}

	return nil
}

// autoBlacklist applies pending blacklist proposals so oversized
// directories disappear from the picker.
func autoBlacklist(cmd *cobra.Command, project string) error {
	proposals, err := workflow.ProposeBlacklist(project)
	if err != nil {
		return err
	}

	if len(proposals) == 0 {
		return nil
	}

	if err := workflow.ApplyBlacklist(project, proposals); err != nil {
		return err
	}

	cmd.PrintErrf("blacklisted %d oversized directories: %v\n", len(proposals), proposals)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
