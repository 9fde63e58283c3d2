package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI-Advenced/GPT-Genius/internal/files"
)

var improvePromptText string

func init() {
	rootCmd.AddCommand(improveCmd)
	improveCmd.Flags().StringVar(&improvePromptText, "prompt", "", "improvement request text (default: read the project's prompt file)")
}

var improveCmd = &cobra.Command{
	Use:   "improve [project-dir]",
	Short: "Run an improvement exchange over an existing codebase",
	Long: `Run an improvement exchange over an existing codebase.

The model's proposed diff is recorded in the project's transcript logs.
Diff application is not implemented yet, so the files on disk are left
unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) == 1 {
			projectDir = args[0]
		}

		cfg := loadConfig()
		ag, mem, err := buildAgent(projectDir, cfg)
		if err != nil {
			return err
		}

		p, err := loadPrompt(projectDir, improvePromptText, "")
		if err != nil {
			return err
		}

		store, err := files.NewStore(projectDir)
		if err != nil {
			return err
		}
		existing, err := store.Pull()
		if err != nil {
			return fmt.Errorf("read project files: %w", err)
		}
		if existing.Len() == 0 {
			return fmt.Errorf("no files found in %s", projectDir)
		}

		if err := mem.ArchiveLogs(); err != nil {
			return fmt.Errorf("archive previous logs: %w", err)
		}

		improved, err := ag.Improve(cmd.Context(), existing, p)
		if err != nil {
			return err
		}

		if err := store.Push(improved); err != nil {
			return fmt.Errorf("write files: %w", err)
		}

		fmt.Printf("Improvement exchange complete over %d files.\n", improved.Len())
		printUsage(ag.AI())
		return nil
	},
}
