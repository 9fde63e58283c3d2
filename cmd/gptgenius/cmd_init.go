package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AI-Advenced/GPT-Genius/internal/agent"
	"github.com/AI-Advenced/GPT-Genius/internal/files"
	"github.com/AI-Advenced/GPT-Genius/internal/steps"
)

var (
	initPromptText       string
	initEntrypointPrompt string
	initRun              bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initPromptText, "prompt", "", "request text (default: read the project's prompt file)")
	initCmd.Flags().StringVar(&initEntrypointPrompt, "entrypoint-prompt", "", "instruction for entrypoint script synthesis")
	initCmd.Flags().BoolVar(&initRun, "run", false, "execute the generated entrypoint after writing the files")
}

var initCmd = &cobra.Command{
	Use:   "init [project-dir]",
	Short: "Generate a new codebase from a prompt",
	Args:  cobra.MaximumNArgs(1),
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

		p, err := loadPrompt(projectDir, initPromptText, initEntrypointPrompt)
		if err != nil {
			return err
		}

		if err := mem.ArchiveLogs(); err != nil {
			return fmt.Errorf("archive previous logs: %w", err)
		}

		ctx := cmd.Context()
		generated, err := ag.Init(ctx, p)
		if err != nil {
			return err
		}
		if generated.Len() == 0 {
			return fmt.Errorf("model reply contained no files")
		}

		store, err := files.NewStore(projectDir)
		if err != nil {
			return err
		}
		if err := store.Push(generated); err != nil {
			return fmt.Errorf("write generated files: %w", err)
		}

		fmt.Printf("Generated %d files in %s:\n", generated.Len(), projectDir)
		for _, path := range generated.Paths() {
			fmt.Println("  " + path)
		}
		printUsage(ag.AI())

		if initRun {
			return runEntrypoint(ctx, ag, cfg.Execution.TimeoutSeconds)
		}
		return nil
	},
}

// runEntrypoint executes the synthesized script in the project directory and
// prints whatever output was captured, even on timeout.
func runEntrypoint(ctx context.Context, ag *agent.SimpleAgent, timeoutSeconds int) error {
	fmt.Printf("\nRunning %s...\n", steps.EntrypointFile)
	result, err := ag.Env().Run(ctx, "bash "+steps.EntrypointFile, time.Duration(timeoutSeconds)*time.Second)
	if result.Stdout != "" {
		fmt.Print(result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Print(result.Stderr)
	}
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("entrypoint exited with code %d", result.ExitCode)
	}
	return nil
}
