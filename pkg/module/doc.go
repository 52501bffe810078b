// SPDX-License-Identifier: MPL-2.0

// Package module turns the tokens a user types (registry identifiers such as
// "alice.markdown" or "pcre", or repository URLs, optionally suffixed with
// "@version") into Module descriptors rooted in the storage directory, and
// scans that directory for the installed-module inventory.
//
// Storage layout:
//
//	<root>/<publisher>/<name>/   modules published under a publisher
//	<root>/<name>/               official modules (manifest + VCS marker)
//	<root>/cache/                never part of the inventory
package module
