// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"lamrun/internal/config"
	"lamrun/internal/task"
)

var (
	setupRequirements string
	setupLibPath      string
	setupExtraFlags   string
)

// setupCmd installs the declared dependencies on the local machine.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install declared dependencies into the library directory",
	Long: `Install the dependencies declared in the requirements manifest into
the library directory that is later bundled into the deployment archive.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTask(cmd, task.NameSetup, func(cfg *config.Config) {
			if setupRequirements != "" {
				cfg.Setup.Requirements = setupRequirements
			}
			if setupLibPath != "" {
				cfg.Setup.LibPath = setupLibPath
			}
			if setupExtraFlags != "" {
				cfg.Setup.ExtraFlags = setupExtraFlags
			}
		})
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupRequirements, "requirements", "", "dependency manifest file")
	setupCmd.Flags().StringVar(&setupLibPath, "lib-path", "", "directory to install dependencies into")
	setupCmd.Flags().StringVar(&setupExtraFlags, "extra-flags", "", "extra installer flags (shell-quoted string)")
}
