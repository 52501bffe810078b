// SPDX-License-Identifier: MPL-2.0

// Package staleness checks installed modules against their upstream
// repositories. Checks run in parallel on a pool bounded by GOMAXPROCS; each
// task only reads its own module directory and reports through a channel.
package staleness

import (
	"cmp"
	"context"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/modpm/modpm/pkg/module"
	"github.com/modpm/modpm/pkg/vcs"
)

type (
	// Result is the staleness verdict for one module.
	Result struct {
		Name     module.Identifier
		Outdated bool
		// ExecError is set when a VCS command failed or its tool is missing.
		ExecError bool
		// Err is the cause when ExecError is set, or a resolution problem.
		Err error
	}

	// Checker runs the outdated protocol of each module's backend.
	Checker struct {
		resolver *module.Resolver
		runner   vcs.Runner
		logger   *log.Logger
		limit    int
	}

	// CheckerOption configures a Checker.
	CheckerOption func(*Checker)
)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) CheckerOption {
	return func(c *Checker) { c.logger = l }
}

// WithLimit overrides the worker count. Values below 1 are ignored.
func WithLimit(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewChecker creates a Checker.
func NewChecker(resolver *module.Resolver, runner vcs.Runner, opts ...CheckerOption) *Checker {
	c := &Checker{
		resolver: resolver,
		runner:   runner,
		logger:   log.New(io.Discard),
		limit:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAll checks every module in names and returns one Result per name,
// sorted by name. It returns only after every check has finished.
func (c *Checker) CheckAll(ctx context.Context, names []module.Identifier) []Result {
	results := make(chan Result, len(names))

	var g errgroup.Group
	g.SetLimit(c.limit)
	for _, name := range names {
		g.Go(func() error {
			results <- c.check(ctx, name)
			// Failures are reported in the Result; returning nil keeps the
			// remaining checks running.
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	out := make([]Result, 0, len(names))
	for r := range results {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Result) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func (c *Checker) check(ctx context.Context, name module.Identifier) Result {
	res := Result{Name: name}

	m, err := c.resolver.Resolve(name.String())
	if err != nil {
		c.logger.Debug("skipping staleness check", "module", name, "err", err)
		res.Err = err
		return res
	}
	if !m.IsInstalled || m.VCS == nil {
		return res
	}

	if err := vcs.IsAvailable(c.runner, m.VCS); err != nil {
		res.ExecError = true
		res.Err = err
		return res
	}

	for _, step := range m.VCS.OutdatedSteps(m.InstallPath) {
		c.logger.Debug("running", "module", name, "cmd", step.String())
	}
	outdated, err := m.VCS.Outdated(ctx, c.runner, m.InstallPath)
	if err != nil {
		c.logger.Debug("staleness check failed", "module", name, "err", err)
		res.ExecError = true
		res.Err = err
		return res
	}
	res.Outdated = outdated
	return res
}

// Outdated returns the names of the outdated modules in results, sorted.
func Outdated(results []Result) []module.Identifier {
	var out []module.Identifier
	for _, r := range results {
		if r.Outdated {
			out = append(out, r.Name)
		}
	}
	slices.Sort(out)
	return out
}

// ExecErrors returns the results whose check failed to execute.
func ExecErrors(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.ExecError {
			out = append(out, r)
		}
	}
	return out
}
