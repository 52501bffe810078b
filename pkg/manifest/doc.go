// SPDX-License-Identifier: MPL-2.0

// Package manifest reads modpm.cue, the metadata file at the root of a module.
//
// A manifest is consumed read-only: the installer uses its version to report
// what is installed and its dependency list to cascade installs.
package manifest
