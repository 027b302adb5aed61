// SPDX-License-Identifier: MPL-2.0

// Package task implements the named packaging and deployment tasks and
// the lifecycle that drives them.
//
// A task runs in three fixed phases — BeforeRun, Run, AfterRun — with the
// first failure aborting the remainder. Each task composes an ordered
// argument vector from an immutable option mapping and a fixed command
// template, then hands it to the shell executor. Options are rebuilt, not
// mutated, when a per-call override is supplied.
package task
