// Package memory provides a file-based key-value store where keys are
// relative paths and values are file contents.
package memory

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MetaDataDir is the per-project directory holding agent metadata.
const MetaDataDir = ".gptgenius"

// Store is the storage contract consumed by the workflows: CRUD on
// path-shaped keys plus an append-only log channel for transcripts.
type Store interface {
	Contains(key string) bool
	Get(key string) (string, error)
	Set(key, val string) error
	Delete(key string) error
	Keys() []string
	Log(key, val string) error
}

// PathFor returns the memory directory for a project base path.
func PathFor(base string) string {
	return filepath.Join(base, MetaDataDir, "memory")
}

// DiskMemory stores key-value pairs as files under a root directory. Keys
// map to file names and values to file contents.
type DiskMemory struct {
	root string
}

// NewDiskMemory creates a store rooted at path, creating the directory if
// needed.
func NewDiskMemory(path string) (*DiskMemory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve memory path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &DiskMemory{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (m *DiskMemory) Root() string {
	return m.root
}

// escapesRoot reports whether the key starts with a parent-directory escape.
func escapesRoot(key string) bool {
	return strings.HasPrefix(key, "../") || strings.HasPrefix(key, `..\`) || key == ".."
}

// Contains reports whether a file exists for the given key.
func (m *DiskMemory) Contains(key string) bool {
	info, err := os.Stat(filepath.Join(m.root, key))
	return err == nil && info.Mode().IsRegular()
}

// Get returns the content for the given key. Image files (.png, .jpg,
// .jpeg) are returned as base64 data URIs; everything else is read as text.
func (m *DiskMemory) Get(key string) (string, error) {
	full := filepath.Join(m.root, key)
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("key %q not found in %q", key, m.root)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", key, err)
	}

	switch strings.ToLower(filepath.Ext(full)) {
	case ".png":
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
	case ".jpg", ".jpeg":
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
	}
	return string(data), nil
}

// GetDefault returns the content for key, or def when the key is absent.
func (m *DiskMemory) GetDefault(key, def string) string {
	val, err := m.Get(key)
	if err != nil {
		return def
	}
	return val
}

// Set writes val under key, creating parent directories as needed. Keys that
// escape the root are rejected.
func (m *DiskMemory) Set(key, val string) error {
	if escapesRoot(key) {
		return fmt.Errorf("key %q attempts to access parent path", key)
	}
	full := filepath.Join(m.root, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", key, err)
	}
	if err := os.WriteFile(full, []byte(val), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes the file or directory stored under key.
func (m *DiskMemory) Delete(key string) error {
	full := filepath.Join(m.root, key)
	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("key %q not found in %q", key, m.root)
	}
	if info.IsDir() {
		return os.RemoveAll(full)
	}
	return os.Remove(full)
}

// Keys returns the sorted relative paths of all files in the store.
func (m *DiskMemory) Keys() []string {
	var keys []string
	filepath.WalkDir(m.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return nil
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(keys)
	return keys
}

// Len returns the number of files in the store.
func (m *DiskMemory) Len() int {
	return len(m.Keys())
}

// PathList returns a newline-separated listing of all keys.
func (m *DiskMemory) PathList() string {
	return strings.Join(m.Keys(), "\n")
}

// ToJSON serializes the full store content as a JSON object.
func (m *DiskMemory) ToJSON() (string, error) {
	contents := make(map[string]string)
	for _, key := range m.Keys() {
		val, err := m.Get(key)
		if err != nil {
			return "", err
		}
		contents[key] = val
	}
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Log appends val to the log file named by key under the logs/ directory,
// prefixed with a timestamp line. The file is created on first use.
func (m *DiskMemory) Log(key, val string) error {
	if escapesRoot(key) {
		return fmt.Errorf("key %q attempts to access parent path", key)
	}
	full := filepath.Join(m.root, "logs", key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create log dir for %q: %w", key, err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log %q: %w", key, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s\n%s\n", time.Now().Format(time.RFC3339), val); err != nil {
		return fmt.Errorf("append log %q: %w", key, err)
	}
	return nil
}

// ArchiveLogs moves the logs/ directory to a timestamped archive directory.
// A store with no logs is left untouched.
func (m *DiskMemory) ArchiveLogs() error {
	logsDir := filepath.Join(m.root, "logs")
	if _, err := os.Stat(logsDir); err != nil {
		return nil
	}
	archive := filepath.Join(m.root, "logs_"+time.Now().Format("2006-01-02-15-04-05"))
	return os.Rename(logsDir, archive)
}
