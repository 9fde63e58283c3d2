package chat

import (
	"log/slog"

	"github.com/AI-Advenced/GPT-Genius/internal/files"
)

// Diff represents the parsed edits for a single file in a unified diff.
// Currently a placeholder; hunk parsing is not implemented.
type Diff struct {
	Path string
}

// ParseDiffs parses a unified-diff reply into per-file diffs. Diff parsing is
// not implemented; it always returns an empty map.
func ParseDiffs(text string) map[string]Diff {
	slog.Info("diff parsing not implemented, returning no diffs")
	return map[string]Diff{}
}

// ApplyDiffs applies parsed diffs to the given files. Diff application is not
// implemented; the input files are returned unchanged, so improvement runs
// are an identity transform on the artifact.
func ApplyDiffs(diffs map[string]Diff, d *files.Dict) *files.Dict {
	slog.Info("diff application not implemented, returning files unchanged")
	return d.Clone()
}
