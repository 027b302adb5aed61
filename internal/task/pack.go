// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"lamrun/internal/config"
	"lamrun/internal/issue"
	"lamrun/internal/shell"
)

// packTemplate archives the working directory into the deployment zip.
// The archive and exclusion paths are absolute, so the same archive is
// appended to no matter which directory the command runs from. The "."
// target replaces the shell glob a human would type; the zip tool recurses
// from the working directory either way.
var packTemplate = Template{
	"zip -r9 {zip_file}",
	".",
	"-x@{exclude_file}",
}

// PackTask builds the deployment archive: the project tree first, then the
// library directory contents appended to the same archive.
type PackTask struct {
	BaseTask
	zipFile     string
	excludeFile string
	libPath     string
}

// NewPackTask creates a pack task from the loaded configuration.
// Archive and exclusion paths are resolved to absolute paths at
// construction time.
func NewPackTask(cfg *config.Config) (*PackTask, error) {
	zipFile, err := filepath.Abs(cfg.Pack.ZipFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve archive path").
			WithResource(cfg.Pack.ZipFile).
			WithKind(issue.ErrConfiguration).
			Wrap(err).
			BuildError()
	}
	excludeFile, err := filepath.Abs(cfg.Pack.ExcludeFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve exclusion list path").
			WithResource(cfg.Pack.ExcludeFile).
			WithKind(issue.ErrConfiguration).
			Wrap(err).
			BuildError()
	}

	return &PackTask{
		zipFile:     zipFile,
		excludeFile: excludeFile,
		libPath:     cfg.Setup.LibPath,
	}, nil
}

// Name returns the task name.
func (t *PackTask) Name() string { return "pack" }

// BeforeRun removes any stale archive; zip would otherwise append to it.
func (t *PackTask) BeforeRun(*RunContext) error {
	if err := os.Remove(t.zipFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return issue.NewErrorContext().
			WithOperation("remove stale archive").
			WithResource(t.zipFile).
			Wrap(err).
			BuildError()
	}
	return nil
}

// Run archives the project tree, then appends the library directory
// contents when that directory exists and is non-empty.
func (t *PackTask) Run(rc *RunContext) error {
	if err := t.archive(rc, ""); err != nil {
		return err
	}

	populated, err := isPopulatedDir(t.libPath)
	if err != nil {
		return err
	}
	if !populated {
		// Nothing installed locally; the base archive is complete.
		return nil
	}

	return t.archive(rc, t.libPath)
}

// archive runs one zip invocation, rooted at dir ("" means the current
// directory).
func (t *PackTask) archive(rc *RunContext, dir string) error {
	args, err := packTemplate.Compose(Options{
		"zip_file":     t.zipFile,
		"exclude_file": t.excludeFile,
	})
	if err != nil {
		return err
	}

	return rc.Executor.Run(rc.Context, shell.Command{
		Args:   args,
		Dir:    dir,
		Stdout: rc.Stdout,
		Stderr: rc.Stderr,
	})
}

// isPopulatedDir reports whether path is a directory with at least one
// entry. A missing path is not an error.
func isPopulatedDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}
