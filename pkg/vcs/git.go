// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"strings"
)

var gitTemplate = template{
	executable:  "git",
	markerDir:   ".git",
	installArgs: []string{"clone", "--depth=1", "--recursive", "--shallow-submodules"},
	versionFlag: "--branch",
	pathFlag:    "-C",
	updateArgs:  []string{"pull", "--recurse-submodules"},
	outdated:    []string{"fetch", "rev-parse @", "rev-parse @{u}"},
}

// Git is the git backend.
type Git struct{}

// Kind implements Backend.
func (Git) Kind() Kind { return KindGit }

// Executable implements Backend.
func (Git) Executable() string { return gitTemplate.executable }

// MarkerDir implements Backend.
func (Git) MarkerDir() string { return gitTemplate.markerDir }

// InstallCommand implements Backend.
func (Git) InstallCommand(url, path, version string) Command {
	return gitTemplate.installCommand(url, path, version)
}

// UpdateCommand implements Backend.
func (Git) UpdateCommand(path string) Command { return gitTemplate.updateCommand(path) }

// OutdatedSteps implements Backend.
func (Git) OutdatedSteps(path string) []Command { return gitTemplate.outdatedSteps(path) }

// Outdated fetches, then compares the local and upstream HEAD revisions. Any
// failing step is an execution error, never an "outdated" signal.
func (g Git) Outdated(ctx context.Context, r Runner, path string) (bool, error) {
	steps := g.OutdatedSteps(path)
	revs := make([]string, 0, len(steps))
	for _, step := range steps {
		out, err := runChecked(ctx, r, step)
		if err != nil {
			return false, err
		}
		revs = append(revs, strings.TrimSpace(out))
	}
	// revs[0] is the fetch output.
	return revs[1] != revs[2], nil
}

func (Git) template() template { return gitTemplate }
