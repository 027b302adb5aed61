// SPDX-License-Identifier: MPL-2.0

// Package shell executes external commands from ordered argument lists.
//
// Commands are run directly through os/exec — no shell interpolation, no
// re-splitting, no glob expansion — so composed argument vectors can be
// tested and logged exactly as they will execute. Environment overrides
// apply to the child process only.
package shell
