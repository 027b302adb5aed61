// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tasksCmd lists the built-in tasks.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the built-in tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, TitleStyle.Render("Available tasks"))
		for _, name := range taskRegistry.Names() {
			fmt.Fprintf(out, "  %s\n", CommandStyle.Render(name))
		}
		return nil
	},
}
