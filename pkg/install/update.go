// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"

	"github.com/modpm/modpm/pkg/manifest"
	"github.com/modpm/modpm/pkg/module"
	"github.com/modpm/modpm/pkg/staleness"
	"github.com/modpm/modpm/pkg/vcs"
)

// Update pulls the named modules, or every installed module when names is
// empty, then cascades into each module's manifest dependencies. A module is
// updated at most once per call.
func (o *Orchestrator) Update(ctx context.Context, names []string) (*Report, error) {
	rep := &Report{}
	if len(names) == 0 {
		ids, err := o.resolver.Installed()
		if err != nil {
			return rep, err
		}
		if len(ids) == 0 {
			o.logger.Info("no modules installed")
			return rep, nil
		}
		names = identStrings(ids)
	}

	visited := make(map[module.Identifier]bool)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := o.update(ctx, name, names, visited, rep); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func (o *Orchestrator) update(ctx context.Context, token string, query []string, visited map[module.Identifier]bool, rep *Report) error {
	m, err := o.resolver.Resolve(token)
	if err != nil {
		o.fail(rep, token, err)
		return nil
	}
	if visited[m.Ident] {
		return nil
	}
	visited[m.Ident] = true

	ok, err := o.pull(ctx, m, rep)
	if err != nil || !ok {
		return err
	}

	mf, err := manifest.Load(m.InstallPath).Get()
	if err != nil {
		o.fail(rep, m.Ident.String(), err)
		return nil
	}
	if mf == nil {
		return nil
	}

	var deps []string
	for _, d := range Cascade(mf.Dependencies, query) {
		if !visited[module.Identifier(cascadeKey(d))] {
			deps = append(deps, d)
		}
	}
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return err
		}
		dm, err := o.resolver.Resolve(dep)
		if err != nil {
			o.fail(rep, dep, err)
			continue
		}
		if dm.IsInstalled {
			err = o.update(ctx, dep, deps, visited, rep)
		} else {
			visited[dm.Ident] = true
			err = o.install(ctx, []string{dep}, deps, rep)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// updateInPlace resolves name again and pulls that module. Install uses it
// for plain-http modules, which update by their install-path identifier.
// It does not cascade.
func (o *Orchestrator) updateInPlace(ctx context.Context, name module.Identifier, rep *Report) error {
	m, err := o.resolver.Resolve(name.String())
	if err != nil {
		o.fail(rep, name.String(), err)
		return nil
	}
	_, err = o.pull(ctx, m, rep)
	return err
}

// pull runs the backend's update command for m. It reports whether the
// update succeeded; the error is fatal.
func (o *Orchestrator) pull(ctx context.Context, m module.Module, rep *Report) (bool, error) {
	if !m.IsInstalled {
		o.fail(rep, m.Ident.String(), ErrNotInstalled)
		return false, nil
	}
	if m.VCS == nil {
		o.fail(rep, m.Ident.String(), fmt.Errorf("cannot update: %s is not a version-controlled checkout", m.FormattedInstallPath))
		return false, nil
	}
	if err := vcs.IsAvailable(o.runner, m.VCS); err != nil {
		return false, err
	}

	o.logger.Info("updating", "module", m.Ident)
	if err := o.run(ctx, m.Ident.String(), m.VCS.UpdateCommand(m.InstallPath)); err != nil {
		o.fail(rep, m.Ident.String(), err)
		return false, nil
	}
	rep.Updated = append(rep.Updated, m.Ident.String())
	return true, nil
}

// Outdated checks every installed module against upstream and returns the
// outdated ones. Any check that could not run fails the whole call.
func (o *Orchestrator) Outdated(ctx context.Context) ([]module.Identifier, error) {
	ids, err := o.resolver.Installed()
	if err != nil {
		return nil, err
	}
	results := o.checker.CheckAll(ctx, ids)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed := staleness.ExecErrors(results); len(failed) > 0 {
		return nil, &StalenessError{Failed: failed}
	}
	return staleness.Outdated(results), nil
}

// Upgrade updates every outdated module. The staleness check completes,
// without error, before any module is touched.
func (o *Orchestrator) Upgrade(ctx context.Context) (*Report, error) {
	outdated, err := o.Outdated(ctx)
	if err != nil {
		return &Report{}, err
	}
	if len(outdated) == 0 {
		o.logger.Debug("all modules are up to date")
		return &Report{}, nil
	}
	return o.Update(ctx, identStrings(outdated))
}

func identStrings(ids []module.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
