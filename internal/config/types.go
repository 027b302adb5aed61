// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the loaded lamrun configuration. Values come from
	// LAMRUN_* environment variables, the config file, and defaults, in
	// that order of precedence (flags override at the command layer).
	Config struct {
		// Function identifies the deployed function remote tasks act on.
		Function FunctionConfig `mapstructure:"function"`
		// Setup configures dependency installation.
		Setup SetupConfig `mapstructure:"setup"`
		// Invoke configures local handler invocation.
		Invoke InvokeConfig `mapstructure:"invoke"`
		// Pack configures deployment archive builds.
		Pack PackConfig `mapstructure:"pack"`
		// AWS configures the cloud CLI invocation surface.
		AWS AWSConfig `mapstructure:"aws"`
		// UI configures CLI output behavior.
		UI UIConfig `mapstructure:"ui"`
	}

	// FunctionConfig identifies the deployed function.
	FunctionConfig struct {
		// Name is the deployed function name. Required by remote tasks.
		Name string `mapstructure:"name"`
		// Qualifier optionally pins a version or alias.
		Qualifier string `mapstructure:"qualifier"`
	}

	// SetupConfig configures the setup task.
	SetupConfig struct {
		// Requirements is the dependency manifest file.
		Requirements string `mapstructure:"requirements"`
		// LibPath is the directory dependencies are installed into.
		LibPath string `mapstructure:"lib_path"`
		// InstallPrefix is the local install prefix.
		InstallPrefix string `mapstructure:"install_prefix"`
		// ExtraFlags holds extra installer flags as one shell-style string.
		ExtraFlags string `mapstructure:"extra_flags"`
	}

	// InvokeConfig configures the local invoke task.
	InvokeConfig struct {
		// Handler is the handler function name.
		Handler string `mapstructure:"handler"`
		// HandlerFile is the file defining the handler.
		HandlerFile string `mapstructure:"handler_file"`
		// EventFile is the JSON event file passed to the handler.
		EventFile string `mapstructure:"event_file"`
		// Timeout is the local invocation timeout in seconds.
		Timeout int `mapstructure:"timeout"`
	}

	// PackConfig configures the pack task.
	PackConfig struct {
		// ZipFile is the deployment archive file name.
		ZipFile string `mapstructure:"zip_file"`
		// ExcludeFile is the archive exclusion list.
		ExcludeFile string `mapstructure:"exclude_file"`
	}

	// AWSConfig configures the remote tasks.
	AWSConfig struct {
		// CLI is the cloud CLI binary name.
		CLI string `mapstructure:"cli"`
		// Payload is the invocation payload reference.
		Payload string `mapstructure:"payload"`
		// Outfile is where the cloud CLI writes the invocation result.
		Outfile string `mapstructure:"outfile"`
		// ZipRef is the archive reference uploaded by update-code.
		ZipRef string `mapstructure:"zip_ref"`
	}

	// UIConfig configures CLI output behavior.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a loaded value fails a constraint
	// the CUE schema cannot express. It wraps ErrInvalidConfig.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
)

// Error returns the error message for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel for errors.Is matching.
func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// DefaultConfig returns the built-in defaults, mirroring the conventional
// serverless project layout.
func DefaultConfig() *Config {
	return &Config{
		Function: FunctionConfig{},
		Setup: SetupConfig{
			Requirements:  "requirements.txt",
			LibPath:       "./lib",
			InstallPrefix: "./local",
		},
		Invoke: InvokeConfig{
			Handler:     "lambda_handler",
			HandlerFile: "lambda_function.py",
			EventFile:   "event.json",
			Timeout:     3,
		},
		Pack: PackConfig{
			ZipFile:     "lambda_function.zip",
			ExcludeFile: "exclude.lst",
		},
		AWS: AWSConfig{
			CLI:     "aws",
			Payload: "file://event.json",
			Outfile: filepath.Join(os.TempDir(), "outfile.txt"),
			ZipRef:  "fileb://lambda_function.zip",
		},
		UI: UIConfig{},
	}
}

// Validate checks constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	if c.Invoke.Timeout <= 0 {
		return &InvalidConfigError{Field: "invoke.timeout", Reason: "must be a positive number of seconds"}
	}
	if c.AWS.CLI == "" {
		return &InvalidConfigError{Field: "aws.cli", Reason: "must not be empty"}
	}
	return nil
}
