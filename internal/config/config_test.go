// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lamrun/internal/issue"
	"lamrun/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Setup.Requirements != "requirements.txt" {
		t.Errorf("Setup.Requirements = %q, want %q", cfg.Setup.Requirements, "requirements.txt")
	}
	if cfg.Invoke.Timeout != 3 {
		t.Errorf("Invoke.Timeout = %d, want 3", cfg.Invoke.Timeout)
	}
	if cfg.Pack.ZipFile != "lambda_function.zip" {
		t.Errorf("Pack.ZipFile = %q, want %q", cfg.Pack.ZipFile, "lambda_function.zip")
	}
	if cfg.AWS.CLI != "aws" {
		t.Errorf("AWS.CLI = %q, want %q", cfg.AWS.CLI, "aws")
	}
	if !strings.HasSuffix(cfg.AWS.Outfile, "outfile.txt") {
		t.Errorf("AWS.Outfile = %q, want temp dir outfile.txt", cfg.AWS.Outfile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()
	restore := testutil.MustChdir(t, tmpDir)
	defer restore()

	cfg, resolved, err := loadWithOptions(LoadOptions{})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v, want nil", err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty (no config file)", resolved)
	}
	if cfg.Invoke.Handler != "lambda_handler" {
		t.Errorf("Invoke.Handler = %q, want default", cfg.Invoke.Handler)
	}
}

func TestLoad_CUEFile(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "lamrun.cue")
	testutil.MustWriteFile(t, cuePath, `
function: {
	name:      "my-function"
	qualifier: "prod"
}
invoke: timeout: 10
aws: cli: "aws2"
`)

	cfg, resolved, err := loadWithOptions(LoadOptions{ConfigFilePath: cuePath})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v, want nil", err)
	}
	if resolved != cuePath {
		t.Errorf("resolved path = %q, want %q", resolved, cuePath)
	}
	if cfg.Function.Name != "my-function" {
		t.Errorf("Function.Name = %q, want %q", cfg.Function.Name, "my-function")
	}
	if cfg.Function.Qualifier != "prod" {
		t.Errorf("Function.Qualifier = %q, want %q", cfg.Function.Qualifier, "prod")
	}
	if cfg.Invoke.Timeout != 10 {
		t.Errorf("Invoke.Timeout = %d, want 10", cfg.Invoke.Timeout)
	}
	if cfg.AWS.CLI != "aws2" {
		t.Errorf("AWS.CLI = %q, want %q", cfg.AWS.CLI, "aws2")
	}
	// Unset fields keep defaults.
	if cfg.Setup.LibPath != "./lib" {
		t.Errorf("Setup.LibPath = %q, want default %q", cfg.Setup.LibPath, "./lib")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "lamrun.cue")
	testutil.MustWriteFile(t, cuePath, `invoke: timeout: "not-a-number"`)

	_, _, err := loadWithOptions(LoadOptions{ConfigFilePath: cuePath})
	if err == nil {
		t.Fatalf("loadWithOptions() error = nil, want schema violation")
	}
	if !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("errors.Is(err, issue.ErrConfiguration) = false, got %v", err)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := loadWithOptions(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "absent.cue")})
	if err == nil {
		t.Fatalf("loadWithOptions() error = nil, want not-found error")
	}
	if !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("errors.Is(err, issue.ErrConfiguration) = false, got %v", err)
	}
}

func TestLoad_ValidationBeyondSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Invoke.Timeout = 0

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() error = %v, want *InvalidConfigError", err)
	}
	if invalid.Field != "invoke.timeout" {
		t.Errorf("Field = %q, want %q", invalid.Field, "invoke.timeout")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("errors.Is(err, ErrInvalidConfig) = false")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()
	restore := testutil.MustChdir(t, tmpDir)
	defer restore()

	cleanup := testutil.MustSetenv(t, "LAMRUN_FUNCTION_NAME", "env-function")
	defer cleanup()

	cfg, _, err := loadWithOptions(LoadOptions{})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v, want nil", err)
	}
	if cfg.Function.Name != "env-function" {
		t.Errorf("Function.Name = %q, want %q (from env)", cfg.Function.Name, "env-function")
	}
}
