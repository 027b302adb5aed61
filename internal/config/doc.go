// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates lamrun configuration.
//
// Configuration is read from a CUE file (explicit --config path, the
// platform config directory, or the current directory), validated against
// an embedded schema, and merged with LAMRUN_* environment variables and
// built-in defaults via Viper.
package config
