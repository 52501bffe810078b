// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds how much CUE modpm is willing to evaluate (1 MiB).
// Manifests and config files are a few hundred bytes in practice.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures a decode call.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		filename:    "<input>",
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename sets the file name reported in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		o.maxFileSize = n
	}
}

// WithConcrete controls whether every field must be concrete after
// unification. Config files leave most fields open, manifests do not.
func WithConcrete(concrete bool) Option {
	return func(o *options) {
		o.concrete = concrete
	}
}
