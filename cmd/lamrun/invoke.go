// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"lamrun/internal/config"
	"lamrun/internal/task"
)

var (
	invokeHandler     string
	invokeHandlerFile string
	invokeLibPath     string
	invokeTimeout     int
)

// invokeCmd runs the handler function on the local machine.
var invokeCmd = &cobra.Command{
	Use:   "invoke [event-file]",
	Short: "Invoke the handler locally against a JSON event file",
	Long: `Run the handler function locally against a JSON event file. The
library directory is placed on the module search path for the duration
of the call only.

An event file passed as an argument overrides the configured one for
this invocation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, task.NameInvoke, func(cfg *config.Config) {
			if len(args) == 1 {
				cfg.Invoke.EventFile = args[0]
			}
			if invokeHandler != "" {
				cfg.Invoke.Handler = invokeHandler
			}
			if invokeHandlerFile != "" {
				cfg.Invoke.HandlerFile = invokeHandlerFile
			}
			if invokeLibPath != "" {
				cfg.Setup.LibPath = invokeLibPath
			}
			if invokeTimeout > 0 {
				cfg.Invoke.Timeout = invokeTimeout
			}
		})
	},
}

func init() {
	invokeCmd.Flags().StringVar(&invokeHandler, "handler", "", "handler function name")
	invokeCmd.Flags().StringVar(&invokeHandlerFile, "handler-file", "", "file defining the handler")
	invokeCmd.Flags().StringVar(&invokeLibPath, "lib-path", "", "library directory for the module search path")
	invokeCmd.Flags().IntVarP(&invokeTimeout, "timeout", "t", 0, "invocation timeout in seconds")
}
