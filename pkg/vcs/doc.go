// SPDX-License-Identifier: MPL-2.0

// Package vcs is the registry of version-control backends modpm can drive.
//
// The set is closed: [Git] and [Mercurial]. Each backend knows its executable,
// the marker directory that identifies a checkout it manages, and how to build
// the install, update and outdated-detection commands. Commands are argv
// values executed through a [Runner], never shell strings.
//
// The outdated protocols differ per backend and live in code:
//   - git runs fetch, rev-parse @ and rev-parse @{u}; outdated iff the two
//     revisions differ.
//   - mercurial runs incoming; exit 1 means nothing incoming, exit 0 means
//     outdated, anything else is an execution error.
package vcs
