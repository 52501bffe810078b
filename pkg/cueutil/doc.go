// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE decoding helpers shared by the manifest and
// configuration loaders.
//
// Every CUE document modpm reads goes through the same steps: compile the
// embedded schema, compile the user file, unify it with a schema definition,
// validate, then decode either into a struct ([Decode]) or into a generic map
// ([DecodeMap]) that Viper can merge.
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	m, err := cueutil.Decode[Manifest](schema, data, "#Manifest",
//	    cueutil.WithFilename("modpm.cue"))
package cueutil
