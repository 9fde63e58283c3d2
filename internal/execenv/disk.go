// Package execenv runs generated code in a working directory and captures
// its output.
package execenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AI-Advenced/GPT-Genius/internal/files"
)

// Result carries the captured output of one command execution. On timeout
// the output captured so far is still populated.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Env is the execution sandbox contract: push files in, run a command with a
// wall-clock timeout, pull files back out.
type Env interface {
	Upload(d *files.Dict) error
	Download() (*files.Dict, error)
	Run(ctx context.Context, command string, timeout time.Duration) (Result, error)
}

// DiskEnv executes commands on the local filesystem inside a file store's
// working directory.
type DiskEnv struct {
	store *files.Store
}

// NewDiskEnv creates an execution environment rooted at path. An empty path
// uses a fresh temporary working directory.
func NewDiskEnv(path string) (*DiskEnv, error) {
	store, err := files.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("create file store: %w", err)
	}
	return &DiskEnv{store: store}, nil
}

// WorkingDir returns the directory commands execute in.
func (e *DiskEnv) WorkingDir() string {
	return e.store.WorkingDir()
}

// Upload writes the files into the working directory.
func (e *DiskEnv) Upload(d *files.Dict) error {
	return e.store.Push(d)
}

// Download reads the working directory back into a file dict.
func (e *DiskEnv) Download() (*files.Dict, error) {
	return e.store.Pull()
}

// Run executes the command through the shell in the working directory. When
// the timeout elapses the process is killed and the output captured so far
// is returned together with the context error.
func (e *DiskEnv) Run(ctx context.Context, command string, timeout time.Duration) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = e.store.WorkingDir()
	// Don't let a lingering grandchild holding the pipes block Wait forever.
	cmd.WaitDelay = 5 * time.Second

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start command: %w", err)
	}

	var stdout, stderr bytes.Buffer
	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	pumpErr := g.Wait()

	waitErr := cmd.Wait()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("command terminated: %w", ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// Non-zero exit is reported through ExitCode, not as an error.
			return result, nil
		}
		return result, fmt.Errorf("wait command: %w", waitErr)
	}
	if pumpErr != nil {
		return result, fmt.Errorf("capture output: %w", pumpErr)
	}
	return result, nil
}
