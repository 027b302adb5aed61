// SPDX-License-Identifier: MPL-2.0

package main

import cmd "lamrun/cmd/lamrun"

func main() {
	cmd.Execute()
}
