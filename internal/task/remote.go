// SPDX-License-Identifier: MPL-2.0

package task

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"lamrun/internal/config"
	"lamrun/internal/issue"
	"lamrun/internal/shell"
)

// Command templates for the cloud CLI invocation surface. The {cli}
// placeholder carries the configured binary name; qualifier fragments are
// appended at construction only when a qualifier was supplied.
var (
	getConfigTemplate = Template{
		"{cli} lambda get-function-configuration",
		"--function-name {function_name}",
	}

	remoteInvokeTemplate = Template{
		"{cli} lambda invoke",
		"--function-name {function_name}",
		"--invocation-type {invocation_type}",
		"--log-type {log_type}",
		"--payload {payload}",
	}

	updateCodeTemplate = Template{
		"{cli} lambda update-function-code",
		"--function-name {function_name}",
		"--zip-file {zip_file}",
	}
)

type (
	// GetConfigTask fetches the deployed function's configuration.
	GetConfigTask struct {
		BaseTask
		opts     Options
		template Template
	}

	// RemoteInvokeTask invokes the deployed function, decodes the embedded
	// log field, and prints the result file written by the cloud CLI.
	RemoteInvokeTask struct {
		BaseTask
		opts     Options
		template Template
		outfile  string
	}

	// UpdateCodeTask uploads a new archive as the function's code.
	UpdateCodeTask struct {
		BaseTask
		opts     Options
		template Template
	}
)

// requireFunctionName returns the configured function name, failing with a
// configuration error when it is absent. Remote tasks call this at
// construction, before any command is composed.
func requireFunctionName(cfg *config.Config) (string, error) {
	if cfg.Function.Name == "" {
		return "", issue.NewErrorContext().
			WithOperation("construct task").
			WithKind(issue.ErrConfiguration).
			WithSuggestion("Set function.name in lamrun.cue").
			WithSuggestion("Or pass --function-name on the command line").
			Wrap(errors.New("function name required")).
			BuildError()
	}
	return cfg.Function.Name, nil
}

// NewGetConfigTask creates a remote config fetch task.
func NewGetConfigTask(cfg *config.Config) (*GetConfigTask, error) {
	name, err := requireFunctionName(cfg)
	if err != nil {
		return nil, err
	}

	opts := Options{
		"cli":           cfg.AWS.CLI,
		"function_name": name,
	}
	template := getConfigTemplate
	if cfg.Function.Qualifier != "" {
		opts = opts.With("qualifier", cfg.Function.Qualifier)
		template = template.Append("--qualifier {qualifier}")
	}

	return &GetConfigTask{opts: opts, template: template}, nil
}

// Name returns the task name.
func (t *GetConfigTask) Name() string { return "aws-getconfig" }

// Run fetches the configured function's configuration.
func (t *GetConfigTask) Run(rc *RunContext) error {
	return t.GetConfig(rc, "")
}

// GetConfig fetches the function configuration. A non-empty functionName
// replaces the configured name for this call.
func (t *GetConfigTask) GetConfig(rc *RunContext, functionName string) error {
	opts := t.opts
	if functionName != "" {
		opts = opts.With("function_name", functionName)
	}

	result, err := capture(rc, t.template, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(rc.Stdout, strings.TrimRight(result.Output, "\n"))
	return nil
}

// NewRemoteInvokeTask creates a remote invocation task.
func NewRemoteInvokeTask(cfg *config.Config) (*RemoteInvokeTask, error) {
	name, err := requireFunctionName(cfg)
	if err != nil {
		return nil, err
	}

	opts := Options{
		"cli":             cfg.AWS.CLI,
		"function_name":   name,
		"invocation_type": "RequestResponse",
		"log_type":        "Tail",
		"payload":         cfg.AWS.Payload,
		"outfile":         cfg.AWS.Outfile,
	}
	template := remoteInvokeTemplate
	if cfg.Function.Qualifier != "" {
		opts = opts.With("qualifier", cfg.Function.Qualifier)
		template = template.Append("--qualifier {qualifier}")
	}
	// The outfile positional is always last.
	template = template.Append("{outfile}")

	return &RemoteInvokeTask{opts: opts, template: template, outfile: cfg.AWS.Outfile}, nil
}

// Name returns the task name.
func (t *RemoteInvokeTask) Name() string { return "aws-invoke" }

// Run invokes the configured function.
func (t *RemoteInvokeTask) Run(rc *RunContext) error {
	return t.Invoke(rc, "")
}

// Invoke invokes the deployed function. A non-empty functionName replaces
// the configured name for this call.
func (t *RemoteInvokeTask) Invoke(rc *RunContext, functionName string) error {
	opts := t.opts
	if functionName != "" {
		opts = opts.With("function_name", functionName)
	}

	result, err := capture(rc, t.template, opts)
	if err != nil {
		return err
	}

	logText, err := DecodeLogResult(result.Output)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Stdout, logText)

	return t.printResultFile(rc)
}

// printResultFile prints the contents of the output file written by the
// cloud CLI during the invocation.
func (t *RemoteInvokeTask) printResultFile(rc *RunContext) error {
	contents, err := os.ReadFile(t.outfile)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read invocation result").
			WithResource(t.outfile).
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(rc.Stdout, "RESULT: %s\n", contents)
	return nil
}

// DecodeLogResult extracts the optional LogResult field from the captured
// invocation response and base64-decodes it. An absent field decodes to
// the empty string; a response that is not valid JSON is a parse error.
func DecodeLogResult(captured string) (string, error) {
	if !gjson.Valid(captured) {
		return "", issue.NewErrorContext().
			WithOperation("parse invocation response").
			WithKind(issue.ErrParse).
			Wrap(errors.New("captured output is not valid JSON")).
			BuildError()
	}

	encoded := gjson.Get(captured, "LogResult").String()
	if encoded == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("decode log result").
			WithKind(issue.ErrParse).
			Wrap(err).
			BuildError()
	}
	return string(decoded), nil
}

// NewUpdateCodeTask creates a code update task.
func NewUpdateCodeTask(cfg *config.Config) (*UpdateCodeTask, error) {
	name, err := requireFunctionName(cfg)
	if err != nil {
		return nil, err
	}

	return &UpdateCodeTask{
		opts: Options{
			"cli":           cfg.AWS.CLI,
			"function_name": name,
			"zip_file":      cfg.AWS.ZipRef,
		},
		template: updateCodeTemplate,
	}, nil
}

// Name returns the task name.
func (t *UpdateCodeTask) Name() string { return "aws-updatecode" }

// Run uploads the configured archive as the function's code.
func (t *UpdateCodeTask) Run(rc *RunContext) error {
	return t.UpdateCode(rc, "")
}

// UpdateCode uploads the archive. A non-empty functionName replaces the
// configured name for this call.
func (t *UpdateCodeTask) UpdateCode(rc *RunContext, functionName string) error {
	opts := t.opts
	if functionName != "" {
		opts = opts.With("function_name", functionName)
	}

	result, err := capture(rc, t.template, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(rc.Stdout, strings.TrimRight(result.Output, "\n"))
	return nil
}

// capture composes the template and runs it with output captured. On a
// non-zero exit the tool's stderr is surfaced to rc.Stderr; the command's
// own error text is the primary diagnostic.
func capture(rc *RunContext, template Template, opts Options) (*shell.Result, error) {
	args, err := template.Compose(opts)
	if err != nil {
		return nil, err
	}

	result, err := rc.Executor.RunCapture(rc.Context, shell.Command{Args: args})
	if err != nil {
		if result != nil && result.ErrOutput != "" {
			fmt.Fprint(rc.Stderr, result.ErrOutput)
		}
		return nil, err
	}
	return result, nil
}
