// SPDX-License-Identifier: MPL-2.0

package task

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/charmbracelet/log"

	"lamrun/internal/shell"
)

// recordingTask records which lifecycle phases ran, in order.
type recordingTask struct {
	BaseTask
	phases    *[]string
	beforeErr error
	runErr    error
	afterErr  error
}

func (t *recordingTask) Name() string { return "recording" }

func (t *recordingTask) BeforeRun(*RunContext) error {
	*t.phases = append(*t.phases, "before")
	return t.beforeErr
}

func (t *recordingTask) Run(*RunContext) error {
	*t.phases = append(*t.phases, "run")
	return t.runErr
}

func (t *recordingTask) AfterRun(*RunContext) error {
	*t.phases = append(*t.phases, "after")
	return t.afterErr
}

// testRunContext returns a run context whose executor swallows logging
// and records every spawned command, substituting replacement (default
// "true") for the real binary.
func testRunContext(t *testing.T, calls *[][]string, replacement ...string) *RunContext {
	t.Helper()

	fake := func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		if calls != nil {
			*calls = append(*calls, append([]string{name}, arg...))
		}
		repl := replacement
		if len(repl) == 0 {
			repl = []string{"true"}
		}
		return exec.CommandContext(ctx, repl[0], repl[1:]...)
	}

	executor := shell.NewExecutor(
		shell.WithExecCommand(fake),
		shell.WithLogger(log.New(io.Discard)),
	)
	rc := NewRunContext(context.Background(), executor)
	rc.Stdout = io.Discard
	rc.Stderr = io.Discard
	return rc
}

func TestRun_LifecycleOrder(t *testing.T) {
	var phases []string
	err := Run(&RunContext{Context: context.Background()}, &recordingTask{phases: &phases})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	want := []string{"before", "run", "after"}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phases[%d] = %q, want %q", i, phases[i], want[i])
		}
	}
}

func TestRun_BeforeRunFailureSkipsRest(t *testing.T) {
	boom := errors.New("boom")
	var phases []string
	err := Run(&RunContext{Context: context.Background()}, &recordingTask{phases: &phases, beforeErr: boom})

	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if len(phases) != 1 || phases[0] != "before" {
		t.Errorf("phases = %v, want [before]", phases)
	}
}

func TestRun_MainFailureSkipsAfterRun(t *testing.T) {
	boom := errors.New("boom")
	var phases []string
	err := Run(&RunContext{Context: context.Background()}, &recordingTask{phases: &phases, runErr: boom})

	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if len(phases) != 2 || phases[1] != "run" {
		t.Fatalf("phases = %v, want [before run]", phases)
	}
	for _, p := range phases {
		if p == "after" {
			t.Errorf("AfterRun ran despite main phase failure")
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	names := r.Names()
	want := []string{
		NameGetConfig, NameAWSInvoke, NameUpdateCode,
		NameInvoke, NamePack, NameSetup,
	}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %d entries", names, len(want))
	}
	for _, name := range want {
		if _, err := r.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) error = %v, want nil", name, err)
		}
	}

	if _, err := r.Lookup("nope"); err == nil {
		t.Errorf("Lookup(unknown) error = nil, want error")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	names := DefaultRegistry().Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
