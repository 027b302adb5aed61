// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"lamrun/internal/config"
	"lamrun/internal/task"
)

var (
	awsFunctionName string
	awsQualifier    string
	awsPayload      string
	awsOutfile      string
	awsZipRef       string
)

// awsCmd groups the tasks that act on the deployed function.
var awsCmd = &cobra.Command{
	Use:   "aws",
	Short: "Act on the deployed function via the cloud CLI",
}

// applyAWSFlags copies the shared aws flags into the per-invocation config.
func applyAWSFlags(cfg *config.Config) {
	if awsFunctionName != "" {
		cfg.Function.Name = awsFunctionName
	}
	if awsQualifier != "" {
		cfg.Function.Qualifier = awsQualifier
	}
}

var awsGetConfigCmd = &cobra.Command{
	Use:   "getconfig",
	Short: "Fetch the deployed function's configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTask(cmd, task.NameGetConfig, applyAWSFlags)
	},
}

var awsInvokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke the deployed function and print its log and result",
	Long: `Invoke the deployed function with the configured payload. The log
embedded in the response is base64-decoded and printed, followed by the
contents of the result file written by the cloud CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTask(cmd, task.NameAWSInvoke, func(cfg *config.Config) {
			applyAWSFlags(cfg)
			if awsPayload != "" {
				cfg.AWS.Payload = awsPayload
			}
			if awsOutfile != "" {
				cfg.AWS.Outfile = awsOutfile
			}
		})
	},
}

var awsUpdateCodeCmd = &cobra.Command{
	Use:   "update-code",
	Short: "Upload a new archive as the function's code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTask(cmd, task.NameUpdateCode, func(cfg *config.Config) {
			applyAWSFlags(cfg)
			if awsZipRef != "" {
				cfg.AWS.ZipRef = awsZipRef
			}
		})
	},
}

func init() {
	awsCmd.PersistentFlags().StringVar(&awsFunctionName, "function-name", "", "deployed function name")
	awsCmd.PersistentFlags().StringVar(&awsQualifier, "qualifier", "", "version or alias qualifier")
	awsInvokeCmd.Flags().StringVar(&awsPayload, "payload", "", "invocation payload reference")
	awsInvokeCmd.Flags().StringVar(&awsOutfile, "outfile", "", "file the cloud CLI writes the result to")
	awsUpdateCodeCmd.Flags().StringVar(&awsZipRef, "zip-file", "", "archive reference to upload")

	awsCmd.AddCommand(awsGetConfigCmd)
	awsCmd.AddCommand(awsInvokeCmd)
	awsCmd.AddCommand(awsUpdateCodeCmd)
}
