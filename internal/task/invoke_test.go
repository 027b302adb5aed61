// SPDX-License-Identifier: MPL-2.0

package task

import (
	"bytes"
	"os"
	"testing"

	"lamrun/internal/config"
)

func TestInvokeTask_ComposedCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := config.DefaultConfig()
	invoke, err := NewInvokeTask(cfg)
	if err != nil {
		t.Fatalf("NewInvokeTask() error = %v, want nil", err)
	}

	var calls [][]string
	rc := testRunContext(t, &calls)
	if err := Run(rc, invoke); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	want := []string{
		"python-lambda-local",
		"-t", "3",
		"-l", "./lib",
		"-f", "lambda_handler",
		"lambda_function.py",
		"event.json",
	}
	assertArgs(t, calls[0], want)
}

func TestInvokeTask_EventFileOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := config.DefaultConfig()
	invoke, err := NewInvokeTask(cfg)
	if err != nil {
		t.Fatalf("NewInvokeTask() error = %v, want nil", err)
	}

	var calls [][]string
	rc := testRunContext(t, &calls)

	if err := invoke.Invoke(rc, "other.json"); err != nil {
		t.Fatalf("Invoke(override) error = %v, want nil", err)
	}
	// A later call without an override must see the configured file again;
	// the override is per call, never stored.
	if err := invoke.Invoke(rc, ""); err != nil {
		t.Fatalf("Invoke() error = %v, want nil", err)
	}

	if len(calls) != 2 {
		t.Fatalf("executed %d commands, want 2", len(calls))
	}
	if got := calls[0][len(calls[0])-1]; got != "other.json" {
		t.Errorf("override call event file = %q, want %q", got, "other.json")
	}
	if got := calls[1][len(calls[1])-1]; got != "event.json" {
		t.Errorf("followup call event file = %q, want %q", got, "event.json")
	}
}

func TestInvokeTask_ModuleSearchPathScopedToChild(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, present := os.LookupEnv("PYTHONPATH"); present {
		t.Skip("PYTHONPATH set in test environment")
	}

	cfg := config.DefaultConfig()
	invoke, err := NewInvokeTask(cfg)
	if err != nil {
		t.Fatalf("NewInvokeTask() error = %v, want nil", err)
	}

	// Substitute a probe that prints the child's PYTHONPATH.
	rc := testRunContext(t, nil, "sh", "-c", `printf %s "$PYTHONPATH"`)
	var stdout bytes.Buffer
	rc.Stdout = &stdout

	if err := Run(rc, invoke); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if got := stdout.String(); got != "./lib" {
		t.Errorf("child PYTHONPATH = %q, want %q", got, "./lib")
	}
	if _, present := os.LookupEnv("PYTHONPATH"); present {
		t.Errorf("PYTHONPATH leaked into parent environment")
	}
}

func TestInvokeTask_ScopedEnvGoneAfterFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, present := os.LookupEnv("PYTHONPATH"); present {
		t.Skip("PYTHONPATH set in test environment")
	}

	cfg := config.DefaultConfig()
	invoke, err := NewInvokeTask(cfg)
	if err != nil {
		t.Fatalf("NewInvokeTask() error = %v, want nil", err)
	}

	rc := testRunContext(t, nil, "sh", "-c", "exit 1")
	if err := Run(rc, invoke); err == nil {
		t.Fatalf("Run() error = nil, want failure")
	}
	if _, present := os.LookupEnv("PYTHONPATH"); present {
		t.Errorf("PYTHONPATH leaked into parent environment after failure")
	}
}
