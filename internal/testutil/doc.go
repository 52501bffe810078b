// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by modpm's tests: Must* wrappers
// that fail the test on error, a scripted VCS runner, and builders for module
// trees under a temporary storage root.
package testutil
