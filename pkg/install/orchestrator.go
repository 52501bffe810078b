// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/modpm/modpm/pkg/module"
	"github.com/modpm/modpm/pkg/registry"
	"github.com/modpm/modpm/pkg/settings"
	"github.com/modpm/modpm/pkg/staleness"
	"github.com/modpm/modpm/pkg/vcs"
)

type (
	// Registry is the subset of the registry client the orchestrator uses.
	Registry interface {
		ProbeAvailable(ctx context.Context) (string, error)
		FetchMetadata(ctx context.Context, name string) (registry.Metadata, error)
		IncrementDownloads(ctx context.Context, name string) error
	}

	// Prompter asks the user a yes/no question. Implementations that cannot
	// ask return an error wrapping ErrPromptUnavailable.
	Prompter interface {
		Confirm(ctx context.Context, title, description string) (bool, error)
	}

	// Orchestrator runs install, update, upgrade and remove operations
	// against one storage root.
	Orchestrator struct {
		settings settings.Settings
		resolver *module.Resolver
		registry Registry
		runner   vcs.Runner
		prompter Prompter
		checker  *staleness.Checker
		logger   *log.Logger

		// mirror is the probed registry mirror, set on first registry use.
		mirror string
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)
)

// WithRunner sets the subprocess runner for VCS commands.
func WithRunner(r vcs.Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithPrompter sets the confirmation prompter. Without one every
// confirmation fails with ErrPromptUnavailable.
func WithPrompter(p Prompter) Option {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithResolver replaces the resolver built from the settings.
func WithResolver(r *module.Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// New creates an Orchestrator.
func New(s settings.Settings, reg Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings: s,
		registry: reg,
		runner:   vcs.ExecRunner{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = module.NewResolver(s.StorageRoot(), module.WithLogger(o.logger))
	}
	o.checker = staleness.NewChecker(o.resolver, o.runner, staleness.WithLogger(o.logger))
	return o
}

// Resolver returns the resolver in use.
func (o *Orchestrator) Resolver() *module.Resolver { return o.resolver }

// ConfirmInstall asks whether an installed module may be overwritten. It
// returns false without asking when the requested version is the installed
// or pinned one.
func (o *Orchestrator) ConfirmInstall(ctx context.Context, m module.Module) (bool, error) {
	if sameVersion(m.Version, m.InstalledVersion) {
		return false, nil
	}
	if m.PinnedVersion != "" && sameVersion(m.Version, m.PinnedVersion) {
		return false, nil
	}

	if o.settings.FailOnPrompt() {
		return false, &PromptUnavailableError{Module: m.Ident.String(), Reason: "prompting is disabled"}
	}
	if o.prompter == nil {
		return false, &PromptUnavailableError{Module: m.Ident.String(), Reason: "no terminal to ask on"}
	}

	current := m.InstalledVersion
	if m.PinnedVersion != "" {
		current = m.PinnedVersion
	}
	if current == "" {
		current = "unknown version"
	}
	wanted := m.Version
	if wanted == "" {
		wanted = "the latest version"
	}

	title := fmt.Sprintf("%s is already installed. Overwrite it?", m.Ident)
	description := fmt.Sprintf("Installed: %s\nRequested: %s\nLocation:  %s", current, wanted, m.FormattedInstallPath)
	ok, err := o.prompter.Confirm(ctx, title, description)
	if err != nil {
		if errors.Is(err, ErrPromptUnavailable) {
			return false, &PromptUnavailableError{Module: m.Ident.String(), Reason: "no terminal to ask on"}
		}
		return false, err
	}
	return ok, nil
}

// ensureRegistry probes the mirrors once per orchestrator.
func (o *Orchestrator) ensureRegistry(ctx context.Context) error {
	if o.mirror != "" {
		return nil
	}
	mirror, err := o.registry.ProbeAvailable(ctx)
	if err != nil {
		return err
	}
	o.logger.Debug("using registry mirror", "mirror", mirror)
	o.mirror = mirror
	return nil
}

// fail records an item error and logs it.
func (o *Orchestrator) fail(rep *Report, name string, err error) {
	o.logger.Error(err.Error(), "module", name)
	rep.Errors = append(rep.Errors, &ItemError{Module: name, Err: err})
}

// removeDir deletes a module directory and, when that leaves its publisher
// directory empty, the publisher directory too.
func (o *Orchestrator) removeDir(m module.Module) error {
	o.logger.Debug("removing", "module", m.Ident, "path", m.InstallPath)
	if err := os.RemoveAll(m.InstallPath); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrFilesystem, m.FormattedInstallPath, err)
	}
	if m.Publisher == "" {
		return nil
	}

	publisherDir := filepath.Dir(m.InstallPath)
	if publisherDir == o.resolver.Root() {
		return nil
	}
	entries, err := os.ReadDir(publisherDir)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrFilesystem, publisherDir, err)
	}
	if len(entries) == 0 {
		if err := os.Remove(publisherDir); err != nil {
			return fmt.Errorf("%w: remove %s: %w", ErrFilesystem, publisherDir, err)
		}
	}
	return nil
}

// run executes c, logging the command text and raw output at debug level.
func (o *Orchestrator) run(ctx context.Context, name string, c vcs.Command) error {
	o.logger.Debug("running", "module", name, "cmd", c.String())
	out, err := vcs.Run(ctx, o.runner, c)
	if out != "" {
		o.logger.Debug("output", "module", name, "output", out)
	}
	return err
}
