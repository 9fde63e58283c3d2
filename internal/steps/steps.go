// Package steps implements the individual phases of the generation and
// improvement workflows: system prompt composition, code generation,
// entrypoint synthesis, and improvement.
package steps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AI-Advenced/GPT-Genius/internal/ai"
	"github.com/AI-Advenced/GPT-Genius/internal/chat"
	"github.com/AI-Advenced/GPT-Genius/internal/files"
	"github.com/AI-Advenced/GPT-Genius/internal/memory"
	"github.com/AI-Advenced/GPT-Genius/internal/preprompts"
	"github.com/AI-Advenced/GPT-Genius/internal/prompt"
	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// Workflow artifact names.
const (
	CodeGenLogFile    = "all_output.txt"
	EntrypointLogFile = "gen_entrypoint_chat.txt"
	ImproveLogFile    = "improve.txt"
	EntrypointFile    = "run.sh"
)

// defaultEntrypointPrompt is used when the request carries no entrypoint
// instruction of its own.
const defaultEntrypointPrompt = `Make a unix script that
a) installs dependencies
b) runs all necessary parts of the codebase (in parallel if necessary)
`

// SetupSysPrompt composes the system prompt for generating code from
// scratch: roadmap, the generation template with its file-format fragment
// substituted, and the philosophy notes.
func SetupSysPrompt(pp *preprompts.Holder) (string, error) {
	return composeSysPrompt(pp, "generate", "file_format")
}

// SetupSysPromptExistingCode composes the system prompt for improving an
// existing codebase, substituting the diff file format.
func SetupSysPromptExistingCode(pp *preprompts.Holder) (string, error) {
	return composeSysPrompt(pp, "improve", "file_format_diff")
}

func composeSysPrompt(pp *preprompts.Holder, template, format string) (string, error) {
	roadmap, err := pp.Get("roadmap")
	if err != nil {
		return "", err
	}
	body, err := pp.Get(template)
	if err != nil {
		return "", err
	}
	fileFormat, err := pp.Get(format)
	if err != nil {
		return "", err
	}
	philosophy, err := pp.Get("philosophy")
	if err != nil {
		return "", err
	}
	return roadmap + strings.ReplaceAll(body, "FILE_FORMAT", fileFormat) +
		"\nUseful to know:\n" + philosophy, nil
}

// logTranscript records a conversation transcript in the memory store.
// Logging is a side effect; a failure is reported but never fails the step.
func logTranscript(mem memory.Store, key string, messages []llm.Message) {
	if err := mem.Log(key, llm.PrettyMessages(messages)); err != nil {
		slog.Warn("failed to log transcript", "key", key, "error", err)
	}
}

// GenCode generates a codebase from the prompt and parses the reply into a
// file dict. An unparseable reply yields an empty dict, not an error.
func GenCode(ctx context.Context, a *ai.AI, p prompt.Prompt, mem memory.Store, pp *preprompts.Holder) (*files.Dict, error) {
	system, err := SetupSysPrompt(pp)
	if err != nil {
		return nil, fmt.Errorf("compose system prompt: %w", err)
	}

	messages, err := a.Start(ctx, system, p.ToMessage(), "gen_code")
	if err != nil {
		return nil, fmt.Errorf("gen_code: %w", err)
	}

	logTranscript(mem, CodeGenLogFile, messages)

	reply := strings.TrimSpace(messages[len(messages)-1].Text())
	return chat.ParseFiles(reply), nil
}

// GenEntrypoint asks the model for a script that installs and runs the
// generated codebase and returns it as a single-entry dict keyed by the
// entrypoint filename. Only fenced-block bodies from the reply are used.
func GenEntrypoint(ctx context.Context, a *ai.AI, p prompt.Prompt, d *files.Dict, mem memory.Store, pp *preprompts.Holder) (*files.Dict, error) {
	userPrompt := p.EntrypointPrompt
	if userPrompt == "" {
		userPrompt = defaultEntrypointPrompt
	}

	system, err := pp.Get("entrypoint")
	if err != nil {
		return nil, fmt.Errorf("compose entrypoint prompt: %w", err)
	}

	user := llm.TextMessage(llm.RoleUser,
		userPrompt+"\nInformation about the codebase:\n\n"+d.ToChat())

	messages, err := a.Start(ctx, system, user, "gen_entrypoint")
	if err != nil {
		return nil, fmt.Errorf("gen_entrypoint: %w", err)
	}

	logTranscript(mem, EntrypointLogFile, messages)

	reply := strings.TrimSpace(messages[len(messages)-1].Text())
	entry := files.NewDict()
	entry.Set(EntrypointFile, chat.ExtractFenced(reply))
	return entry, nil
}

// Improve runs one improvement exchange over an existing codebase. The
// model's diff reply is recorded but not applied (see chat.ApplyDiffs); the
// returned dict matches the input.
func Improve(ctx context.Context, a *ai.AI, p prompt.Prompt, d *files.Dict, mem memory.Store, pp *preprompts.Holder) (*files.Dict, error) {
	system, err := SetupSysPromptExistingCode(pp)
	if err != nil {
		return nil, fmt.Errorf("compose system prompt: %w", err)
	}

	messages := []llm.Message{
		llm.TextMessage(llm.RoleSystem, system),
		llm.TextMessage(llm.RoleUser, d.ToChat()),
		p.ToMessage(),
	}

	messages, err = a.Next(ctx, messages, "", "improve")
	if err != nil {
		return nil, fmt.Errorf("improve: %w", err)
	}

	logTranscript(mem, ImproveLogFile, messages)

	reply := strings.TrimSpace(messages[len(messages)-1].Text())
	diffs := chat.ParseDiffs(reply)
	return chat.ApplyDiffs(diffs, d), nil
}
