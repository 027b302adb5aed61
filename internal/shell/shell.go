// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"lamrun/internal/issue"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Command describes one external invocation as an ordered argument
	// list. Args[0] is the binary; no shell is involved, so arguments are
	// never re-split or glob-expanded by lamrun itself.
	Command struct {
		// Args is the full argument vector, binary first.
		Args []string
		// Dir is the working directory ("" means inherit).
		Dir string
		// Env contains environment variables applied to the child process
		// only. The parent environment is never mutated.
		Env map[string]string
		// Stdin is where to read standard input (nil means os.Stdin).
		Stdin io.Reader
		// Stdout is where to write standard output (nil means os.Stdout).
		Stdout io.Writer
		// Stderr is where to write standard error (nil means os.Stderr).
		Stderr io.Writer
	}

	// Result contains the outcome of a captured execution.
	Result struct {
		// ExitCode is the exit code of the command.
		ExitCode int
		// Output contains captured stdout.
		Output string
		// ErrOutput contains captured stderr.
		ErrOutput string
	}

	// ExitStatusError is returned when a command exits non-zero.
	// It matches issue.ErrExecution with errors.Is.
	ExitStatusError struct {
		Code   int
		Stderr string
	}

	// ExecutorOption configures an Executor.
	ExecutorOption func(*Executor)

	// Executor runs external commands. The zero value is not usable;
	// construct with NewExecutor.
	Executor struct {
		execCommand ExecCommandFunc
		logger      *log.Logger
	}
)

// Error returns the error message for ExitStatusError.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Is reports whether target is the execution-error sentinel.
func (e *ExitStatusError) Is(target error) bool {
	return target == issue.ErrExecution
}

// WithExecCommand overrides how exec.Cmd instances are created.
// Tests use this to substitute fake processes.
func WithExecCommand(fn ExecCommandFunc) ExecutorOption {
	return func(e *Executor) {
		if fn != nil {
			e.execCommand = fn
		}
	}
}

// WithLogger overrides the logger used for command tracing.
func WithLogger(logger *log.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an Executor with production defaults.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		execCommand: exec.CommandContext,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the command, streaming output to the command's writers.
// A non-zero exit yields *ExitStatusError; a command that could not be
// started yields a wrapped generic failure.
func (e *Executor) Run(ctx context.Context, c Command) error {
	cmd, err := e.prepare(ctx, c)
	if err != nil {
		return err
	}

	cmd.Stdin = c.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitStatusError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to execute command: %w", err)
	}
	return nil
}

// RunCapture executes the command and captures stdout and stderr.
// On a non-zero exit the Result is still populated so callers can surface
// the captured stderr alongside the returned *ExitStatusError.
func (e *Executor) RunCapture(ctx context.Context, c Command) (*Result, error) {
	cmd, err := e.prepare(ctx, c)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = c.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitStatusError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return result, fmt.Errorf("failed to execute command: %w", runErr)
	}

	return result, nil
}

// prepare validates the command and builds the exec.Cmd.
func (e *Executor) prepare(ctx context.Context, c Command) (*exec.Cmd, error) {
	if len(c.Args) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("execute command").
			WithKind(issue.ErrConfiguration).
			Wrap(errors.New("empty argument list")).
			BuildError()
	}

	e.logger.Debug("executing command", "cmd", c.String(), "dir", c.Dir)

	cmd := e.execCommand(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), EnvToSlice(c.Env)...)
	}
	return cmd, nil
}

// String renders the command for display, shell-quoting each argument.
// It is used for logging only, never for execution.
func (c Command) String() string {
	quoted := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = arg
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}

// EnvToSlice converts an environment map to KEY=VALUE form, sorted by key
// for deterministic command construction.
func EnvToSlice(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	sort.Strings(entries)
	return entries
}
