// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrMirrorUnreachable is returned when no mirror answers a probe.
	ErrMirrorUnreachable = errors.New("no registry mirror is reachable")
	// ErrMirror is the sentinel for a mirror that answered unusably.
	ErrMirror = errors.New("registry mirror error")
	// ErrNotFound is returned when every mirror reported the module missing.
	ErrNotFound = errors.New("module not found in registry")
)

type (
	// MirrorError is one mirror's failure to serve a request.
	MirrorError struct {
		Mirror string
		Err    error
	}

	// ExhaustedError is returned when no mirror could serve a request. It
	// carries every per-mirror error and unwraps to exactly one sentinel:
	// ErrNotFound when all mirrors reported not-found, ErrMirrorUnreachable
	// for a failed probe, ErrMirror otherwise.
	ExhaustedError struct {
		Op       string
		Subject  string
		Errs     *multierror.Error
		sentinel error
	}
)

// Error implements the error interface.
func (e *MirrorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Mirror, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MirrorError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Subject != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Subject)
	}
	sb.WriteString(": ")
	sb.WriteString(e.sentinel.Error())
	if e.Errs != nil && len(e.Errs.Errors) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.Errs.Error())
	}
	return sb.String()
}

// Unwrap returns the sentinel describing the exhaustion.
func (e *ExhaustedError) Unwrap() error { return e.sentinel }

// MirrorErrors returns the per-mirror errors in the order mirrors were tried.
func (e *ExhaustedError) MirrorErrors() []error {
	if e.Errs == nil {
		return nil
	}
	return e.Errs.WrappedErrors()
}

func newMultiError() *multierror.Error {
	return &multierror.Error{ErrorFormat: formatMirrorErrors}
}

func formatMirrorErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  * " + err.Error()
	}
	return strings.Join(lines, "\n")
}
