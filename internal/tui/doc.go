// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts modpm needs, built on
// charmbracelet/huh.
//
// Prompts only run when stdin is a terminal. Without one they fail with
// ErrNoTerminal instead of blocking, and callers decide what a missing
// answer means.
package tui
