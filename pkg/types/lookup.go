// SPDX-License-Identifier: MPL-2.0

package types

import "fmt"

const (
	// LookupAbsent means the lookup completed and nothing was there.
	LookupAbsent LookupState = iota
	// LookupFound means the lookup produced a value.
	LookupFound
	// LookupFailed means the lookup itself could not complete.
	LookupFailed
)

type (
	// LookupState is the outcome class of a Lookup.
	LookupState int

	// Lookup is the result of a filesystem or registry lookup that distinguishes
	// "there is nothing here" from "I could not tell". Callers treat the two
	// differently: an absent manifest is normal, an unreadable one is not.
	//
	// The zero value is Absent.
	Lookup[T any] struct {
		value T
		state LookupState
		err   error
	}
)

// Found wraps a value produced by a successful lookup.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{value: v, state: LookupFound}
}

// Absent reports that the looked-up thing does not exist.
func Absent[T any]() Lookup[T] {
	return Lookup[T]{state: LookupAbsent}
}

// Failed reports that the lookup could not complete.
func Failed[T any](err error) Lookup[T] {
	return Lookup[T]{state: LookupFailed, err: err}
}

// State returns the outcome class.
func (l Lookup[T]) State() LookupState { return l.state }

// IsFound reports whether the lookup produced a value.
func (l Lookup[T]) IsFound() bool { return l.state == LookupFound }

// IsAbsent reports whether the lookup completed without a value.
func (l Lookup[T]) IsAbsent() bool { return l.state == LookupAbsent }

// Err returns the failure cause, or nil unless the state is LookupFailed.
func (l Lookup[T]) Err() error { return l.err }

// Value returns the found value and whether it exists.
func (l Lookup[T]) Value() (T, bool) {
	return l.value, l.state == LookupFound
}

// Get returns the value, the zero value when absent, or the failure error.
func (l Lookup[T]) Get() (T, error) {
	if l.state == LookupFailed {
		var zero T
		return zero, l.err
	}
	return l.value, nil
}

// String implements fmt.Stringer.
func (s LookupState) String() string {
	switch s {
	case LookupAbsent:
		return "absent"
	case LookupFound:
		return "found"
	case LookupFailed:
		return "failed"
	default:
		return fmt.Sprintf("LookupState(%d)", int(s))
	}
}
