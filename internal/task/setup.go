// SPDX-License-Identifier: MPL-2.0

package task

import (
	sh "mvdan.cc/sh/v3/shell"

	"lamrun/internal/config"
	"lamrun/internal/issue"
	"lamrun/internal/shell"
)

// setupTemplate installs declared dependencies into the library directory.
var setupTemplate = Template{
	"pip install --upgrade",
	"-r {requirements}",
	"-t {lib_path}",
}

// SetupTask installs the declared dependencies on the local machine.
type SetupTask struct {
	BaseTask
	opts       Options
	extraFlags []string
}

// NewSetupTask creates a setup task from the loaded configuration.
func NewSetupTask(cfg *config.Config) (*SetupTask, error) {
	extraFlags, err := sh.Fields(cfg.Setup.ExtraFlags, nil)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse setup.extra_flags").
			WithKind(issue.ErrConfiguration).
			WithSuggestion("Quote flags the way a POSIX shell would expect them").
			Wrap(err).
			BuildError()
	}

	return &SetupTask{
		opts: Options{
			"requirements":   cfg.Setup.Requirements,
			"lib_path":       cfg.Setup.LibPath,
			"install_prefix": cfg.Setup.InstallPrefix,
		},
		extraFlags: extraFlags,
	}, nil
}

// Name returns the task name.
func (t *SetupTask) Name() string { return "setup" }

// Run installs the dependencies declared in the requirements manifest
// into the library directory.
func (t *SetupTask) Run(rc *RunContext) error {
	args, err := setupTemplate.Compose(t.opts)
	if err != nil {
		return err
	}
	args = append(args, t.extraFlags...)

	return rc.Executor.Run(rc.Context, shell.Command{
		Args:   args,
		Stdout: rc.Stdout,
		Stderr: rc.Stderr,
	})
}
