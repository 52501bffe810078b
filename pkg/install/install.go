// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modpm/modpm/pkg/manifest"
	"github.com/modpm/modpm/pkg/module"
	"github.com/modpm/modpm/pkg/vcs"
)

// Install installs every token in order. The returned error is fatal; item
// failures are in the Report.
func (o *Orchestrator) Install(ctx context.Context, tokens []string) (*Report, error) {
	rep := &Report{}
	err := o.install(ctx, tokens, tokens, rep)
	return rep, err
}

// InstallFromManifest installs the dependencies declared in dir's manifest.
func (o *Orchestrator) InstallFromManifest(ctx context.Context, dir string) (*Report, error) {
	lookup := manifest.Load(dir)
	mf, err := lookup.Get()
	if err != nil {
		return &Report{}, err
	}
	if lookup.IsAbsent() {
		return &Report{}, fmt.Errorf("%w: %s", ErrNoManifest, filepath.Join(dir, manifest.FileName))
	}
	if len(mf.Dependencies) == 0 {
		o.logger.Info("manifest declares no dependencies", "manifest", filepath.Join(dir, manifest.FileName))
		return &Report{}, nil
	}
	return o.Install(ctx, mf.Dependencies)
}

// plan is the prepared work for one token: the resolved module, its
// decision and, for a clone, where to clone it from.
type plan struct {
	m        module.Module
	decision Decision
	url      string
	backend  vcs.Backend
}

// install installs tokens. query is the exclusion set for the dependencies
// cascaded from each module. Every token is prepared before the first one is
// applied, so a missing tool or an unreachable registry stops the run while
// nothing has been cloned or removed yet.
func (o *Orchestrator) install(ctx context.Context, tokens, query []string, rep *Report) error {
	plans, err := o.prepare(ctx, tokens, rep)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.apply(ctx, p, query, rep); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves tokens, looks up the clone source of every module that
// needs one and checks that each VCS tool involved is available. It runs no
// command and changes nothing on disk.
func (o *Orchestrator) prepare(ctx context.Context, tokens []string, rep *Report) ([]plan, error) {
	plans := make([]plan, 0, len(tokens))
	seen := make(map[module.Identifier]bool, len(tokens))

	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := o.resolver.Resolve(token)
		if err != nil {
			o.fail(rep, token, err)
			continue
		}
		if seen[m.Ident] {
			continue
		}
		seen[m.Ident] = true

		p := plan{m: m, decision: Decide(m, o.settings.Force())}
		o.logger.Debug("decided", "module", m.Ident, "action", p.decision.Action,
			"installed", m.InstalledVersion, "pinned", m.PinnedVersion, "requested", m.Version)

		if p.decision.Action == ActionUpdate {
			p.backend = m.VCS
			plans = append(plans, p)
			continue
		}

		if !m.IsExternal {
			if err := o.ensureRegistry(ctx); err != nil {
				return nil, err
			}
		}
		p.url, p.backend, err = o.source(ctx, m)
		if err != nil {
			o.fail(rep, m.Ident.String(), err)
			continue
		}
		plans = append(plans, p)
	}

	for _, p := range plans {
		if p.backend == nil {
			continue
		}
		if err := vcs.IsAvailable(o.runner, p.backend); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// apply carries out one prepared plan.
func (o *Orchestrator) apply(ctx context.Context, p plan, query []string, rep *Report) error {
	m := p.m

	switch p.decision.Action {
	case ActionUpdate:
		if !p.decision.UpdateByPath {
			_, err := o.pull(ctx, m, rep)
			return err
		}
		name, err := module.IdentifierFromPath(o.resolver.Root(), m.InstallPath)
		if err != nil {
			o.fail(rep, m.Ident.String(), err)
			return nil
		}
		return o.updateInPlace(ctx, name, rep)

	case ActionReinstall:
		if p.decision.NeedsConfirm {
			ok, err := o.ConfirmInstall(ctx, m)
			if err != nil {
				return err
			}
			if !ok {
				o.logger.Info("keeping installed version", "module", m.Ident)
				rep.Skipped = append(rep.Skipped, m.Ident.String())
				return nil
			}
		}
		if err := o.removeDir(m); err != nil {
			o.fail(rep, m.Ident.String(), err)
			return nil
		}
	}

	return o.fresh(ctx, p, query, rep)
}

// fresh clones a prepared module, bumps its download count and cascades its
// dependencies.
func (o *Orchestrator) fresh(ctx context.Context, p plan, query []string, rep *Report) error {
	m := p.m
	if err := os.MkdirAll(filepath.Dir(m.InstallPath), 0o755); err != nil {
		o.fail(rep, m.Ident.String(), fmt.Errorf("%w: %w", ErrFilesystem, err))
		return nil
	}

	o.logger.Info("installing", "module", m.Display(), "path", m.FormattedInstallPath)
	if err := o.run(ctx, m.Ident.String(), p.backend.InstallCommand(p.url, m.InstallPath, m.Version)); err != nil {
		o.fail(rep, m.Ident.String(), err)
		return nil
	}
	rep.Installed = append(rep.Installed, m.Ident.String())

	if !m.IsExternal {
		if err := o.registry.IncrementDownloads(ctx, m.Ident.String()); err != nil {
			o.fail(rep, m.Ident.String(), fmt.Errorf("installed, but the download count was not updated: %w", err))
		}
	}

	return o.cascade(ctx, m, query, rep)
}

// source returns the clone URL and backend for m: the URL token itself for
// external modules, the registry record otherwise.
func (o *Orchestrator) source(ctx context.Context, m module.Module) (string, vcs.Backend, error) {
	if m.IsExternal {
		kind := vcs.KindGit
		if o.settings.UseMercurial() {
			kind = vcs.KindMercurial
		}
		backend, _ := vcs.ByKind(kind)
		return m.URL, backend, nil
	}

	meta, err := o.registry.FetchMetadata(ctx, m.Ident.String())
	if err != nil {
		return "", nil, err
	}
	kind, err := vcs.ParseKind(meta.VCS)
	if err != nil {
		return "", nil, err
	}
	backend, _ := vcs.ByKind(kind)
	return meta.URL, backend, nil
}

// cascade installs the manifest dependencies of m that are not part of
// the current query.
func (o *Orchestrator) cascade(ctx context.Context, m module.Module, query []string, rep *Report) error {
	mf, err := manifest.Load(m.InstallPath).Get()
	if err != nil {
		o.fail(rep, m.Ident.String(), err)
		return nil
	}
	if mf == nil {
		return nil
	}

	deps := Cascade(mf.Dependencies, query)
	if len(deps) == 0 {
		return nil
	}
	o.logger.Info("installing dependencies", "module", m.Ident, "dependencies", deps)
	return o.install(ctx, deps, deps, rep)
}
