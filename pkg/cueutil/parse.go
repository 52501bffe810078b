// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decode validates data against the schema definition at defPath (e.g.
// "#Manifest") and decodes the unified value into a T.
func Decode[T any](schema, data []byte, defPath string, opts ...Option) (*T, error) {
	unified, err := unify(schema, data, defPath, opts...)
	if err != nil {
		return nil, err
	}

	o := resolve(opts)
	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &out, nil
}

// DecodeMap is Decode for callers that need a generic map, such as merging a
// config file into Viper.
func DecodeMap(schema, data []byte, defPath string, opts ...Option) (map[string]any, error) {
	unified, err := unify(schema, data, defPath, opts...)
	if err != nil {
		return nil, err
	}

	o := resolve(opts)
	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return out, nil
}

func unify(schema, data []byte, defPath string, opts ...Option) (cue.Value, error) {
	o := resolve(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	return unified, nil
}

func resolve(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
