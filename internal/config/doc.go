// SPDX-License-Identifier: MPL-2.0

// Package config handles modpm configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/modpm on Linux, ~/Library/Application Support/modpm on
// macOS, %APPDATA%\modpm on Windows) or from an explicit --config path. The
// file is validated against the embedded schema (config_schema.cue) before it
// is merged over the defaults. MODPM_* environment variables override both.
//
// Command-line flags are applied later, when cmd/modpm freezes the result into
// a settings.Settings.
package config
