// SPDX-License-Identifier: MPL-2.0

package vcs

import "context"

var hgTemplate = template{
	executable:  "hg",
	markerDir:   ".hg",
	installArgs: []string{"clone"},
	versionFlag: "--rev",
	pathFlag:    "--cwd",
	updateArgs:  []string{"pull", "--update"},
	outdated:    []string{"incoming"},
}

// Mercurial is the mercurial backend.
type Mercurial struct{}

// Kind implements Backend.
func (Mercurial) Kind() Kind { return KindMercurial }

// Executable implements Backend.
func (Mercurial) Executable() string { return hgTemplate.executable }

// MarkerDir implements Backend.
func (Mercurial) MarkerDir() string { return hgTemplate.markerDir }

// InstallCommand implements Backend.
func (Mercurial) InstallCommand(url, path, version string) Command {
	return hgTemplate.installCommand(url, path, version)
}

// UpdateCommand implements Backend.
func (Mercurial) UpdateCommand(path string) Command { return hgTemplate.updateCommand(path) }

// OutdatedSteps implements Backend.
func (Mercurial) OutdatedSteps(path string) []Command { return hgTemplate.outdatedSteps(path) }

// Outdated interprets the exit code of hg incoming: 1 means no incoming
// changesets, 0 means there are some, anything else is an execution error.
func (m Mercurial) Outdated(ctx context.Context, r Runner, path string) (bool, error) {
	step := m.OutdatedSteps(path)[0]
	res, err := r.Run(ctx, step)
	if err != nil {
		return false, &ExecError{Command: step, ExitCode: res.ExitCode, Output: res.Output, Err: err}
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, &ExecError{Command: step, ExitCode: res.ExitCode, Output: res.Output}
	}
}

func (Mercurial) template() template { return hgTemplate }
