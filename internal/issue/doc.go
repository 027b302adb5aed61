// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing errors for lamrun.
//
// Errors carry an operation, an optional resource, fix suggestions, and a
// taxonomy sentinel (configuration, execution, parse) that callers match
// with errors.Is.
package issue
