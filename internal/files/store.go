package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store manages a working directory that generated files are pushed to before
// execution and pulled back from afterwards.
type Store struct {
	workingDir string
	id         string
}

// NewStore creates a Store rooted at path. If path is empty, a fresh
// uuid-suffixed directory is created under the system temp directory.
func NewStore(path string) (*Store, error) {
	id := uuid.New().String()
	if path == "" {
		path = filepath.Join(os.TempDir(), "gpt-genius-"+id)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create working dir: %w", err)
	}
	return &Store{workingDir: path, id: id}, nil
}

// WorkingDir returns the absolute working directory path.
func (s *Store) WorkingDir() string {
	return s.workingDir
}

// ID returns the store's unique identifier.
func (s *Store) ID() string {
	return s.id
}

// Push writes every file in the dict under the working directory, creating
// parent directories as needed.
func (s *Store) Push(d *Dict) error {
	for _, path := range d.Paths() {
		content, _ := d.Get(path)
		target := filepath.Join(s.workingDir, path)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Pull reads every regular file under the working directory back into a Dict.
// Files that are not valid UTF-8 text are recorded with a placeholder.
func (s *Store) Pull() (*Dict, error) {
	d := NewDict()
	err := filepath.WalkDir(s.workingDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			// Hidden directories (metadata, VCS) are not part of the artifact.
			if path != s.workingDir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(s.workingDir, path)
		if err != nil {
			return err
		}
		content := string(data)
		if !strings.ContainsRune(content, '\x00') {
			d.Set(filepath.ToSlash(rel), content)
		} else {
			d.Set(filepath.ToSlash(rel), "binary file")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
