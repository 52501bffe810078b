// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for a fix. Errors that match a known failure mode also link to
// an Issue: a Markdown page rendered with glamour that explains the problem
// in depth.
package issue
