// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	// VCSToolMissingId covers a git or hg executable missing from PATH.
	VCSToolMissingId Id = iota + 1
	// MirrorUnreachableId covers a run where no registry mirror answered.
	MirrorUnreachableId
	// PromptUnavailableId covers a confirmation that could not be asked.
	PromptUnavailableId
	// StalenessCheckFailedId covers upgrade/outdated aborting on a failed check.
	StalenessCheckFailedId
	// ConfigLoadFailedId covers an unreadable or invalid config file.
	ConfigLoadFailedId
	// ManifestNotFoundId covers install without arguments outside a module.
	ManifestNotFoundId
)

type (
	// Id identifies an issue page.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a help page for one failure mode.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	vcsToolMissingIssue = &Issue{
		id: VCSToolMissingId,
		mdMsg: `
# Version control tool not found

Modules are fetched with git or mercurial, and the tool this module needs is
not on your PATH. Nothing was changed.

## Things you can try
- Install git (most modules) or mercurial (modules published with ` + "`vcs: \"hg\"`" + `)
- Check that it runs from the same shell:
~~~
$ git --version
$ hg --version
~~~`,
	}

	mirrorUnreachableIssue = &Issue{
		id: MirrorUnreachableId,
		mdMsg: `
# No registry mirror is reachable

Every configured mirror failed to answer. Installed modules are untouched.

## Things you can try
- Check your network connection and proxy settings
- Point modpm at a mirror you can reach, in ` + "`config.cue`" + `:
~~~cue
mirrors: ["https://registry.example.com"]
~~~
  or for one run:
~~~
$ MODPM_MIRRORS=https://registry.example.com modpm install pcre
~~~
- Install from a repository URL instead, which skips the registry`,
		docLinks: []HttpLink{"https://modpm.dev/docs/mirrors"},
	}

	promptUnavailableIssue = &Issue{
		id: PromptUnavailableId,
		mdMsg: `
# Confirmation needed, but nobody can answer

A module is already installed with a different version, and overwriting it
needs a yes from you. modpm is running without a terminal or with
` + "`--fail-on-prompt`" + `, so the run stopped.

## Things you can try
- Re-run with ` + "`--force`" + ` to overwrite without asking
- Remove the module first:
~~~
$ modpm remove <module>
~~~`,
	}

	stalenessCheckFailedIssue = &Issue{
		id: StalenessCheckFailedId,
		mdMsg: `
# Could not check modules for updates

At least one installed module could not be compared with its upstream
repository, so nothing was updated.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see the failing command and its output
- Make sure the module's remote is reachable and its branch tracks upstream
- Remove and reinstall a module whose checkout is broken`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The config file could not be read or does not match the schema.

## Valid keys
~~~cue
modules_path:   "/path/to/modules"
mirrors:        ["https://registry.modpm.dev"]
verbose:        false
fail_on_prompt: false
ui: theme:      "default" // charm, dracula, catppuccin, base16
~~~`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No modpm.cue here

` + "`modpm install`" + ` without arguments installs the dependencies declared in
the ` + "`modpm.cue`" + ` of the current directory, and there is none.

## Things you can try
- Name the modules to install:
~~~
$ modpm install alice.markdown pcre
~~~
- Create a manifest:
~~~cue
name: "my-module"
dependencies: ["pcre", "alice.markdown"]
~~~`,
	}

	issues = map[Id]*Issue{
		vcsToolMissingIssue.Id():       vcsToolMissingIssue,
		mirrorUnreachableIssue.Id():    mirrorUnreachableIssue,
		promptUnavailableIssue.Id():    promptUnavailableIssue,
		stalenessCheckFailedIssue.Id(): stalenessCheckFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns the documentation links of the issue.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the issue for a terminal. stylePath is a glamour style
// name ("dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var sb strings.Builder
		sb.WriteString(md)
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- " + string(link) + "\n")
		}
		md = sb.String()
	}
	return render(md, stylePath)
}

// Ids returns every known issue id in ascending order.
func Ids() []Id {
	return slices.Sorted(maps.Keys(issues))
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
