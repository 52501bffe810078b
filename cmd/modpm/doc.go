// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modpm command tree.
//
// Every command shares one App: it loads configuration once, folds in the
// global flags, and freezes the result into a settings.Settings that the
// registry client and the install orchestrator are built from.
package cmd
