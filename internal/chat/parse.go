// Package chat recovers file artifacts from free-form model replies. The
// reply format is a file path on its own line followed by a fenced code
// block; nothing else in the reply is significant.
package chat

import (
	"regexp"
	"strings"

	"github.com/AI-Advenced/GPT-Genius/internal/files"
)

// fileBlockRe matches a non-whitespace token (candidate file path) followed
// by a fenced code block with an optional language tag.
var fileBlockRe = regexp.MustCompile("(?s)(\\S+)\\n\\s*```[^\\n]*\\n(.+?)```")

// fencedRe matches a fenced code block body regardless of any preceding path
// token. Used when exactly one script is expected.
var fencedRe = regexp.MustCompile("(?s)```\\S*\\n(.+?)```")

var (
	forbiddenRe    = regexp.MustCompile(`[:<>"|?*]`)
	bracketWrapRe  = regexp.MustCompile(`^\[(.*)\]$`)
	backtickWrapRe = regexp.MustCompile("^`(.*)`$")
	trailingJunkRe = regexp.MustCompile(`[\]:]$`)
)

// SanitizePath normalizes a candidate file path from a model reply: strips
// forbidden characters, unwraps [...] and backtick wrapping, drops a single
// trailing ']' or ':', and trims surrounding whitespace. Sanitation is
// idempotent. It never validates against path traversal; that is the storage
// layer's job.
func SanitizePath(path string) string {
	path = forbiddenRe.ReplaceAllString(path, "")
	path = bracketWrapRe.ReplaceAllString(path, "$1")
	path = backtickWrapRe.ReplaceAllString(path, "$1")
	path = trailingJunkRe.ReplaceAllString(path, "")
	return strings.TrimSpace(path)
}

// ParseFiles extracts a file dict from one block of model text. A path token
// with no following fenced block is ignored; when the same path appears more
// than once the later block wins, since the model may restate a file. A reply
// with no matches yields an empty dict, not an error.
func ParseFiles(text string) *files.Dict {
	d := files.NewDict()
	for _, match := range fileBlockRe.FindAllStringSubmatch(text, -1) {
		path := SanitizePath(match[1])
		content := strings.TrimSpace(match[2])
		d.Set(path, content)
	}
	return d
}

// ExtractFenced returns the bodies of all fenced code blocks in the text,
// joined by newlines. Used for entrypoint synthesis where a single script is
// expected and any path tokens are irrelevant.
func ExtractFenced(text string) string {
	var bodies []string
	for _, match := range fencedRe.FindAllStringSubmatch(text, -1) {
		bodies = append(bodies, match[1])
	}
	return strings.Join(bodies, "\n")
}
