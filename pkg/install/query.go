// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"

	"github.com/modpm/modpm/pkg/manifest"
	"github.com/modpm/modpm/pkg/module"
	"github.com/modpm/modpm/pkg/registry"
)

type (
	// Listing is one row of the installed-module inventory.
	Listing struct {
		Module module.Module
		// Err is set when the module directory could not be inspected.
		Err error
	}

	// Details describes one module for show: the manifest of an installed
	// copy, or the registry record of a module that is not installed.
	Details struct {
		Module   module.Module
		Manifest *manifest.Manifest
		Metadata *registry.Metadata
	}
)

// List returns the installed modules, sorted by identifier.
func (o *Orchestrator) List() ([]Listing, error) {
	ids, err := o.resolver.Installed()
	if err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(ids))
	for _, id := range ids {
		m, err := o.resolver.Resolve(id.String())
		if err != nil {
			m, _ = o.resolver.Locate(id.String())
		}
		out = append(out, Listing{Module: m, Err: err})
	}
	return out, nil
}

// Show describes the module named by token.
func (o *Orchestrator) Show(ctx context.Context, token string) (Details, error) {
	m, err := o.resolver.Resolve(token)
	if err != nil {
		return Details{}, err
	}
	d := Details{Module: m}

	if m.IsInstalled {
		mf, err := manifest.Load(m.InstallPath).Get()
		if err != nil {
			return d, err
		}
		d.Manifest = mf
		return d, nil
	}
	if m.IsExternal {
		return d, ErrNotInstalled
	}

	if err := o.ensureRegistry(ctx); err != nil {
		return d, err
	}
	meta, err := o.registry.FetchMetadata(ctx, m.Ident.String())
	if err != nil {
		return d, err
	}
	d.Metadata = &meta
	return d, nil
}
