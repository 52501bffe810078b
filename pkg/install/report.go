// SPDX-License-Identifier: MPL-2.0

package install

import "fmt"

type (
	// Report accumulates the per-module outcomes of one run.
	Report struct {
		Installed []string
		Updated   []string
		Removed   []string
		// Skipped lists modules left alone, e.g. a declined overwrite.
		Skipped []string
		Errors  []*ItemError
	}

	// ItemError is the failure of one module. It does not abort the run.
	ItemError struct {
		Module string
		Err    error
	}
)

// Error implements the error interface.
func (e *ItemError) Error() string { return fmt.Sprintf("%s: %v", e.Module, e.Err) }

// Unwrap returns the underlying cause.
func (e *ItemError) Unwrap() error { return e.Err }

// Failed reports whether any item failed.
func (r *Report) Failed() bool { return len(r.Errors) > 0 }

// Empty reports whether nothing happened at all.
func (r *Report) Empty() bool {
	return len(r.Installed)+len(r.Updated)+len(r.Removed)+len(r.Skipped)+len(r.Errors) == 0
}

