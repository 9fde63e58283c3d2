package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AI-Advenced/GPT-Genius/internal/agent"
	"github.com/AI-Advenced/GPT-Genius/internal/ai"
	"github.com/AI-Advenced/GPT-Genius/internal/config"
	"github.com/AI-Advenced/GPT-Genius/internal/execenv"
	"github.com/AI-Advenced/GPT-Genius/internal/memory"
	"github.com/AI-Advenced/GPT-Genius/internal/preprompts"
	"github.com/AI-Advenced/GPT-Genius/internal/prompt"
	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
	"github.com/AI-Advenced/GPT-Genius/pkg/llm/openai"
)

// buildAgent assembles the agent and its collaborators for a project
// directory. Transcripts and token logs land under the project's metadata
// directory; commands execute in the project directory itself.
func buildAgent(projectDir string, cfg *config.Config) (*agent.SimpleAgent, *memory.DiskMemory, error) {
	mem, err := memory.NewDiskMemory(memory.PathFor(projectDir))
	if err != nil {
		return nil, nil, err
	}

	env, err := execenv.NewDiskEnv(projectDir)
	if err != nil {
		return nil, nil, err
	}

	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	engine, err := ai.New(provider, cfg.LLM.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("create conversation engine: %w", err)
	}

	return agent.New(engine, mem, env, preprompts.NewHolder()), mem, nil
}

// loadPrompt builds the request descriptor: free text from the flag or the
// project's prompt file, plus any images found in the project's images/
// directory (read as base64 data URIs).
func loadPrompt(projectDir, promptText, entrypointPrompt string) (prompt.Prompt, error) {
	if promptText == "" {
		data, err := os.ReadFile(filepath.Join(projectDir, "prompt"))
		if err != nil {
			return prompt.Prompt{}, fmt.Errorf("no --prompt given and no prompt file in %s: %w", projectDir, err)
		}
		promptText = string(data)
	}

	p := prompt.Prompt{Text: promptText, EntrypointPrompt: entrypointPrompt}

	imagesDir := filepath.Join(projectDir, "images")
	if info, err := os.Stat(imagesDir); err == nil && info.IsDir() {
		images, err := memory.NewDiskMemory(imagesDir)
		if err != nil {
			return prompt.Prompt{}, err
		}
		urls := make(map[string]string)
		for _, key := range images.Keys() {
			val, err := images.Get(key)
			if err != nil {
				return prompt.Prompt{}, err
			}
			urls[key] = val
		}
		if len(urls) > 0 {
			p.ImageURLs = urls
		}
	}

	return p, nil
}

// printUsage reports the token ledger and estimated cost for the run.
func printUsage(engine *ai.AI) {
	log := engine.UsageLog()
	if len(log.Entries()) == 0 {
		return
	}
	fmt.Println("\nToken usage:")
	fmt.Print(log.FormatCSV())
	if cost, ok := log.UsageCost(); ok {
		fmt.Printf("Estimated cost: $%.4f\n", cost)
	} else {
		fmt.Println("Estimated cost: unavailable")
	}
}
