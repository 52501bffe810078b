// SPDX-License-Identifier: MPL-2.0

// Package registry is the client for modpm registry servers. Every lookup
// walks a list of interchangeable mirrors, shuffled once per client, and
// stops at the first mirror that answers with a usable record.
package registry
