// SPDX-License-Identifier: MPL-2.0

package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"lamrun/internal/config"
	"lamrun/internal/shell"
)

type (
	// RunContext carries everything a task needs to execute.
	RunContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Executor runs the composed external commands.
		Executor *shell.Executor
		// Stdout is where tasks print their user-visible output.
		Stdout io.Writer
		// Stderr is where tasks print diagnostics.
		Stderr io.Writer
	}

	// Task is a named unit of work with a three-phase lifecycle.
	// BaseTask provides no-op BeforeRun/AfterRun so concrete tasks only
	// implement the phases they need.
	Task interface {
		// Name returns the unique task name used for lookup.
		Name() string
		// BeforeRun runs before the main phase.
		BeforeRun(rc *RunContext) error
		// Run is the main phase.
		Run(rc *RunContext) error
		// AfterRun runs after a successful main phase.
		AfterRun(rc *RunContext) error
	}

	// BaseTask supplies default no-op lifecycle hooks. Concrete tasks
	// embed it and override what they need.
	BaseTask struct{}

	// Constructor builds a task instance from the loaded configuration.
	// A new instance is created per invocation and discarded after.
	Constructor func(cfg *config.Config) (Task, error)

	// Registry maps task names to constructors for lookup by name.
	Registry struct {
		constructors map[string]Constructor
	}
)

// BeforeRun is a no-op.
func (BaseTask) BeforeRun(*RunContext) error { return nil }

// AfterRun is a no-op.
func (BaseTask) AfterRun(*RunContext) error { return nil }

// NewRunContext creates a run context with production defaults.
func NewRunContext(ctx context.Context, executor *shell.Executor) *RunContext {
	return &RunContext{
		Context:  ctx,
		Executor: executor,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Run drives the task lifecycle in fixed order: BeforeRun, Run, AfterRun.
// The first failing phase aborts the remainder and propagates its error,
// so AfterRun is skipped when the main phase fails. There is no retry and
// no rollback; retry policy is left to the operator.
func Run(rc *RunContext, t Task) error {
	if err := t.BeforeRun(rc); err != nil {
		return err
	}
	if err := t.Run(rc); err != nil {
		return err
	}
	return t.AfterRun(rc)
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under name, replacing any previous entry.
func (r *Registry) Register(name string, fn Constructor) {
	r.constructors[name] = fn
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, error) {
	fn, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown task %q", name)
	}
	return fn, nil
}

// Names returns all registered task names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
