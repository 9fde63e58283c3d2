// Package files provides the path-to-content artifact produced and consumed
// by the generation workflows.
package files

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dict maps relative file paths to full file contents. Keys are unique and
// case-sensitive; insertion order is preserved so renderings are
// deterministic. Setting an existing path overwrites its content in place.
type Dict struct {
	order    []string
	contents map[string]string
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{contents: make(map[string]string)}
}

// Set stores content under path, overwriting any previous content. A path
// seen for the first time is appended to the iteration order.
func (d *Dict) Set(path, content string) {
	if _, ok := d.contents[path]; !ok {
		d.order = append(d.order, path)
	}
	d.contents[path] = content
}

// Get returns the content for path and whether it is present.
func (d *Dict) Get(path string) (string, bool) {
	content, ok := d.contents[path]
	return content, ok
}

// Contains reports whether path is present.
func (d *Dict) Contains(path string) bool {
	_, ok := d.contents[path]
	return ok
}

// Paths returns the file paths in insertion order.
func (d *Dict) Paths() []string {
	paths := make([]string, len(d.order))
	copy(paths, d.order)
	return paths
}

// Len returns the number of files.
func (d *Dict) Len() int {
	return len(d.order)
}

// Merge copies every entry of other into d, in other's insertion order.
func (d *Dict) Merge(other *Dict) {
	for _, path := range other.order {
		d.Set(path, other.contents[path])
	}
}

// Clone returns an independent copy of d.
func (d *Dict) Clone() *Dict {
	clone := NewDict()
	clone.Merge(d)
	return clone
}

// Equal reports whether d and other hold the same paths with the same
// contents, ignoring insertion order.
func (d *Dict) Equal(other *Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	for path, content := range d.contents {
		if oc, ok := other.contents[path]; !ok || oc != content {
			return false
		}
	}
	return true
}

// ToChat renders the files for inclusion in a prompt: one header line per
// file followed by its content with 1-based line numbers, all wrapped in a
// single fenced block, so the model can refer to specific lines.
func (d *Dict) ToChat() string {
	var b strings.Builder
	b.WriteString("```\n")
	for _, path := range d.order {
		fmt.Fprintf(&b, "File: %s\n", path)
		for i, line := range strings.Split(d.contents[path], "\n") {
			fmt.Fprintf(&b, "%d %s\n", i+1, line)
		}
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}

// ToLog renders the files for log output: a header line per file followed by
// the raw content.
func (d *Dict) ToLog() string {
	var b strings.Builder
	for _, path := range d.order {
		fmt.Fprintf(&b, "File: %s\n", path)
		b.WriteString(d.contents[path])
		b.WriteString("\n")
	}
	return b.String()
}

// ToJSON serializes the files as a JSON object in insertion order.
func (d *Dict) ToJSON() (string, error) {
	var b strings.Builder
	b.WriteString("{")
	for i, path := range d.order {
		if i > 0 {
			b.WriteString(",")
		}
		key, err := json.Marshal(path)
		if err != nil {
			return "", err
		}
		val, err := json.Marshal(d.contents[path])
		if err != nil {
			return "", err
		}
		b.Write(key)
		b.WriteString(":")
		b.Write(val)
	}
	b.WriteString("}")
	return b.String(), nil
}
