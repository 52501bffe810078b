// SPDX-License-Identifier: MPL-2.0

// Package install orchestrates module installation, update and removal.
//
// Each query token is resolved to a module.Module and routed by Decide:
// fresh install, in-place update, or remove-and-reinstall after
// confirmation. A successful fresh install cascades into the dependencies
// declared in the module's manifest. All mutation is sequential; only the
// staleness checks behind Upgrade and Outdated run in parallel.
//
// Errors come in two kinds. Item errors (a failed clone, an unknown module)
// are recorded in the Report and the run continues. Fatal errors (a missing
// VCS tool, no reachable mirror, a confirmation that cannot be asked, a
// failed staleness check) are returned and end the run.
package install
