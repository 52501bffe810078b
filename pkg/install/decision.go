// SPDX-License-Identifier: MPL-2.0

package install

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/modpm/modpm/pkg/module"
)

const (
	// ActionInstall clones a module that is not installed.
	ActionInstall Action = iota
	// ActionUpdate pulls an installed, unpinned module in place.
	ActionUpdate
	// ActionReinstall removes an installed module and clones it again.
	ActionReinstall
)

type (
	// Action is what the orchestrator does with one module.
	Action int

	// Decision is the routing of one resolved module.
	Decision struct {
		Action Action
		// NeedsConfirm is set for a reinstall the user has not forced.
		NeedsConfirm bool
		// UpdateByPath selects the install-path-derived identifier for the
		// update instead of the module identifier. Plain http:// modules are
		// updated this way.
		UpdateByPath bool
	}
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpdate:
		return "update"
	case ActionReinstall:
		return "reinstall"
	default:
		return "unknown"
	}
}

// Decide routes m. It has no side effects.
//
//	not installed                          -> install
//	installed, no version, no pin          -> update in place
//	installed, version or pin, forced      -> reinstall
//	installed, version or pin, not forced  -> reinstall after confirmation
func Decide(m module.Module, force bool) Decision {
	if !m.IsInstalled {
		return Decision{Action: ActionInstall}
	}
	if m.Version == "" && m.PinnedVersion == "" {
		return Decision{Action: ActionUpdate, UpdateByPath: m.IsPlainHTTP()}
	}
	return Decision{Action: ActionReinstall, NeedsConfirm: !force}
}

// sameVersion compares versions, treating "1.2.0" and "v1.2.0" as equal.
// An empty version never matches.
func sameVersion(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ca, cb := canonical(a), canonical(b)
	if ca != "" && cb != "" {
		return semver.Compare(ca, cb) == 0
	}
	return a == b
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// Cascade returns the dependencies in deps that are not in query, keeping
// the order of deps. Names are compared by normalized identifier without
// version, and a dependency listed twice is kept once.
func Cascade(deps, query []string) []string {
	seen := make([]string, 0, len(query)+len(deps))
	for _, q := range query {
		seen = append(seen, cascadeKey(q))
	}

	var out []string
	for _, d := range deps {
		key := cascadeKey(d)
		if key == "" || slices.Contains(seen, key) {
			continue
		}
		seen = append(seen, key)
		out = append(out, d)
	}
	return out
}

func cascadeKey(token string) string {
	base, _ := module.SplitVersion(strings.TrimSpace(token))
	if module.IsURL(base) {
		if ident, err := module.ParseURL(base); err == nil {
			return ident.Identifier().String()
		}
		return base
	}
	return module.Identifier(base).Normalize().String()
}
