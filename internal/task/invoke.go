// SPDX-License-Identifier: MPL-2.0

package task

import (
	"strconv"

	"lamrun/internal/config"
	"lamrun/internal/shell"
)

// invokeTemplate runs the handler locally against a JSON event file.
var invokeTemplate = Template{
	"python-lambda-local",
	"-t {timeout}",
	"-l {lib_path}",
	"-f {handler}",
	"{handler_file}",
	"{event_file}",
}

// InvokeTask invokes the handler function on the local machine. The
// library directory is put on the module search path for the child
// process only; the parent environment is never touched.
type InvokeTask struct {
	BaseTask
	opts Options
}

// NewInvokeTask creates a local invoke task from the loaded configuration.
func NewInvokeTask(cfg *config.Config) (*InvokeTask, error) {
	return &InvokeTask{
		opts: Options{
			"handler":      cfg.Invoke.Handler,
			"handler_file": cfg.Invoke.HandlerFile,
			"event_file":   cfg.Invoke.EventFile,
			"lib_path":     cfg.Setup.LibPath,
			"timeout":      strconv.Itoa(cfg.Invoke.Timeout),
		},
	}, nil
}

// Name returns the task name.
func (t *InvokeTask) Name() string { return "invoke" }

// Run invokes the handler with the configured event file.
func (t *InvokeTask) Run(rc *RunContext) error {
	return t.Invoke(rc, "")
}

// Invoke runs the handler locally. A non-empty eventFile replaces the
// configured event file for this call; the task's options are rebuilt,
// not mutated.
func (t *InvokeTask) Invoke(rc *RunContext, eventFile string) error {
	opts := t.opts
	if eventFile != "" {
		opts = opts.With("event_file", eventFile)
	}

	args, err := invokeTemplate.Compose(opts)
	if err != nil {
		return err
	}

	return rc.Executor.Run(rc.Context, shell.Command{
		Args:   args,
		Env:    map[string]string{"PYTHONPATH": opts["lib_path"]},
		Stdout: rc.Stdout,
		Stderr: rc.Stderr,
	})
}
