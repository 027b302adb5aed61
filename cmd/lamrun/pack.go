// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"lamrun/internal/config"
	"lamrun/internal/task"
)

var (
	packZipFile     string
	packExcludeFile string
	packLibPath     string
)

// packCmd builds the deployment archive.
var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Build the deployment archive",
	Long: `Build the deployment archive: any stale archive is removed, the
project tree is archived (honoring the exclusion list), and the library
directory contents are appended when that directory is non-empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTask(cmd, task.NamePack, func(cfg *config.Config) {
			if packZipFile != "" {
				cfg.Pack.ZipFile = packZipFile
			}
			if packExcludeFile != "" {
				cfg.Pack.ExcludeFile = packExcludeFile
			}
			if packLibPath != "" {
				cfg.Setup.LibPath = packLibPath
			}
		})
	},
}

func init() {
	packCmd.Flags().StringVar(&packZipFile, "zip-file", "", "deployment archive file name")
	packCmd.Flags().StringVar(&packExcludeFile, "exclude-file", "", "archive exclusion list")
	packCmd.Flags().StringVar(&packLibPath, "lib-path", "", "library directory appended to the archive")
}
