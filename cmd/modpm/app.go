// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/modpm/modpm/internal/config"
	"github.com/modpm/modpm/internal/tui"
	"github.com/modpm/modpm/pkg/install"
	"github.com/modpm/modpm/pkg/registry"
	"github.com/modpm/modpm/pkg/settings"
	"github.com/modpm/modpm/pkg/vcs"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command handler goes through it.
	App struct {
		Config ConfigProvider
		Runner vcs.Runner
		// HTTPClient is used by the registry client. Nil means a cleanhttp client.
		HTTPClient *http.Client
		// Prompter overrides the terminal prompter.
		Prompter install.Prompter
		// Getenv reads the process environment.
		Getenv func(string) string
		stdout io.Writer
		stderr io.Writer

		flags rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Runner     vcs.Runner
		HTTPClient *http.Client
		Prompter   install.Prompter
		Getenv     func(string) string
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// rootFlags holds the global flag values of one invocation.
	rootFlags struct {
		verbose      bool
		force        bool
		failOnPrompt bool
		modulesPath  string
		configPath   string
	}

	// session is everything one command needs, built from config and flags.
	session struct {
		settings settings.Settings
		logger   *log.Logger
		registry *registry.Client
		orch     *install.Orchestrator
	}

	// tuiPrompter asks confirmations on the terminal.
	tuiPrompter struct {
		theme tui.Theme
		out   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = vcs.ExecRunner{}
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}

	return &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		HTTPClient: deps.HTTPClient,
		Prompter:   deps.Prompter,
		Getenv:     deps.Getenv,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

// newSession loads configuration and freezes it, with the global flags and
// the per-command options applied, into the components a command runs on.
// Flags win over config; config wins over the built-in defaults.
func (a *App) newSession(ctx context.Context, extra ...settings.Option) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}

	s, err := a.buildSettings(cfg, extra...)
	if err != nil {
		return nil, err
	}

	logger := newLogger(a.stderr, s.Verbose())

	clientOpts := []registry.ClientOption{
		registry.WithLogger(logger),
		registry.WithUserAgent("modpm/" + Version),
	}
	if a.HTTPClient != nil {
		clientOpts = append(clientOpts, registry.WithHTTPClient(a.HTTPClient))
	}
	reg := registry.New(s.Mirrors(), clientOpts...)

	prompter := a.Prompter
	if prompter == nil {
		theme := tui.Theme(cfg.UI.Theme)
		if ok, errs := theme.IsValid(); !ok {
			logger.Warn("unknown prompt theme, using default", "err", errors.Join(errs...))
			theme = tui.ThemeDefault
		}
		prompter = &tuiPrompter{theme: theme, out: a.stderr}
	}

	orch := install.New(s, reg,
		install.WithRunner(a.Runner),
		install.WithPrompter(prompter),
		install.WithLogger(logger),
	)

	return &session{settings: s, logger: logger, registry: reg, orch: orch}, nil
}

func (a *App) buildSettings(cfg *config.Config, extra ...settings.Option) (settings.Settings, error) {
	opts := []settings.Option{
		settings.WithExe(settings.ExeName(a.Getenv)),
		settings.WithVerbose(a.flags.verbose || cfg.Verbose),
		settings.WithForce(a.flags.force),
		settings.WithFailOnPrompt(a.flags.failOnPrompt || cfg.FailOnPrompt),
	}
	if len(cfg.Mirrors) > 0 {
		opts = append(opts, settings.WithMirrors(cfg.Mirrors))
	}

	switch {
	case a.flags.modulesPath != "":
		root, err := filepath.Abs(a.flags.modulesPath)
		if err != nil {
			return settings.Settings{}, fmt.Errorf("resolve --modules-path: %w", err)
		}
		opts = append(opts, settings.WithStorageRoot(root))
	case cfg.ModulesPath != "":
		opts = append(opts, settings.WithStorageRoot(cfg.ModulesPath))
	default:
		root, err := settings.DefaultStorageRootWith(a.Getenv)
		if err != nil {
			return settings.Settings{}, err
		}
		opts = append(opts, settings.WithStorageRoot(root))
	}

	s, err := settings.New(opts...)
	if err != nil {
		return settings.Settings{}, err
	}
	return s.With(extra...), nil
}

// newLogger returns the process logger: stderr, "modpm" prefix, debug
// output only when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "modpm",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Confirm implements install.Prompter on top of tui.Confirm.
func (p *tuiPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	cfg := tui.DefaultConfig()
	cfg.Theme = p.theme
	cfg.Output = p.out

	ok, err := tui.Confirm(ctx, tui.ConfirmOptions{
		Title:       title,
		Description: description,
		Config:      cfg,
	})
	switch {
	case errors.Is(err, tui.ErrNoTerminal):
		return false, install.ErrPromptUnavailable
	case errors.Is(err, tui.ErrAborted):
		return false, nil
	}
	return ok, err
}
