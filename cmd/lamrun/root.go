// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lamrun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"lamrun/internal/config"
	"lamrun/internal/issue"
	"lamrun/internal/shell"
	"lamrun/internal/task"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// taskRegistry holds the built-in task constructors
	taskRegistry = task.DefaultRegistry()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "lamrun",
		Short: "Package and deploy serverless functions",
		Long: TitleStyle.Render("lamrun") + SubtitleStyle.Render(" - Package and deploy serverless functions") + `

lamrun wraps the packaging and deployment chores of a serverless
function behind a small set of named tasks: installing dependencies,
invoking the handler locally, building the deployment archive, and
talking to the cloud CLI for the deployed function.

Configuration lives in 'lamrun.cue' (current directory or the platform
config directory) and can be overridden with LAMRUN_* environment
variables and per-command flags.

` + SubtitleStyle.Render("Examples:") + `
  lamrun setup                    Install dependencies into ./lib
  lamrun invoke testdata.json     Run the handler against an event file
  lamrun pack                     Build lambda_function.zip
  lamrun aws getconfig            Show the deployed function's config
  lamrun aws invoke               Invoke the deployed function
  lamrun aws update-code          Upload a new deployment archive`,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lamrun/lamrun.cue)")

	// Add subcommands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(awsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig applies global flags before any command runs.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// runTask loads configuration, applies per-command overrides, constructs
// the named task, and drives its lifecycle. Flag overrides mutate the
// per-invocation config value only; the next invocation loads a fresh one.
func runTask(cmd *cobra.Command, name string, override func(cfg *config.Config)) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(formatErrorForDisplay(err, verbose))
	}
	if cfg.UI.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if override != nil {
		override(cfg)
	}

	construct, err := taskRegistry.Lookup(name)
	if err != nil {
		return err
	}
	t, err := construct(cfg)
	if err != nil {
		return errors.New(formatErrorForDisplay(err, verbose))
	}

	rc := task.NewRunContext(cmd.Context(), shell.NewExecutor())
	if err := task.Run(rc, t); err != nil {
		var exitErr *shell.ExitStatusError
		if errors.As(err, &exitErr) {
			// The failed command's own stderr is the primary diagnostic.
			return &ExitError{Code: exitErr.Code, Err: err}
		}
		return errors.New(formatErrorForDisplay(err, verbose))
	}
	return nil
}

// formatErrorForDisplay renders actionable errors with their suggestions.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}
