// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/modpm/modpm/pkg/manifest"
	"github.com/modpm/modpm/pkg/vcs"
)

// CacheDirName is the storage-root directory excluded from the inventory.
const CacheDirName = "cache"

type (
	// Resolver maps query tokens to Modules under a storage root. It only
	// reads the filesystem.
	Resolver struct {
		root   string
		home   string
		logger *log.Logger
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)
)

// WithHomeDir sets the directory abbreviated to "~" in FormattedInstallPath.
func WithHomeDir(home string) ResolverOption {
	return func(r *Resolver) { r.home = filepath.Clean(home) }
}

// WithLogger sets the logger for non-fatal inspection problems.
func WithLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver for the storage root.
func NewResolver(root string, opts ...ResolverOption) *Resolver {
	r := &Resolver{root: filepath.Clean(root), logger: log.New(io.Discard)}
	if home, err := os.UserHomeDir(); err == nil {
		r.home = home
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the storage root.
func (r *Resolver) Root() string { return r.root }

// Locate parses token and computes where the module lives, without touching
// the filesystem.
func (r *Resolver) Locate(token string) (Module, error) {
	base, version := SplitVersion(strings.TrimSpace(token))

	var (
		m   Module
		err error
	)
	if IsURL(base) {
		m, err = r.locateURL(base)
	} else {
		m, err = r.locateIdentifier(base)
	}
	if err != nil {
		return Module{}, err
	}

	m.Version = version
	m.FormattedInstallPath = r.FormatPath(m.InstallPath)
	return m, nil
}

// Resolve locates token and inspects the install directory: whether it
// exists, which VCS manages it, the manifest version and the pinned tag.
func (r *Resolver) Resolve(token string) (Module, error) {
	m, err := r.Locate(token)
	if err != nil {
		return Module{}, err
	}
	if err := r.inspect(&m); err != nil {
		return Module{}, err
	}
	return m, nil
}

func (r *Resolver) locateURL(raw string) (Module, error) {
	ident, err := ParseURL(raw)
	if err != nil {
		return Module{}, err
	}
	id := ident.Identifier()
	if err := id.Validate(); err != nil {
		return Module{}, err
	}
	publisher, name := id.Split()
	return Module{
		Ident:       id,
		Name:        name,
		Publisher:   publisher,
		URL:         raw,
		InstallPath: filepath.Join(r.root, id.RelPath()),
		IsExternal:  true,
	}, nil
}

func (r *Resolver) locateIdentifier(raw string) (Module, error) {
	id := Identifier(raw)
	if err := id.Validate(); err != nil {
		return Module{}, err
	}
	id = id.Normalize()
	publisher, name := id.Split()
	return Module{
		Ident:       id,
		Name:        name,
		Publisher:   publisher,
		InstallPath: filepath.Join(r.root, id.RelPath()),
	}, nil
}

func (r *Resolver) inspect(m *Module) error {
	info, err := os.Stat(m.InstallPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("inspect %s: %w", m.InstallPath, err)
	case !info.IsDir():
		return fmt.Errorf("inspect %s: not a directory", m.InstallPath)
	}
	m.IsInstalled = true

	backend, err := vcs.Detect(m.InstallPath).Get()
	if err != nil {
		return err
	}
	m.VCS = backend

	mf, err := manifest.Load(m.InstallPath).Get()
	if err != nil {
		return fmt.Errorf("module %s: %w", m.Ident, err)
	}
	if mf != nil {
		m.InstalledVersion = mf.Version
	}

	if backend != nil && backend.Kind() == vcs.KindGit {
		tag, err := vcs.PinnedTag(m.InstallPath)
		if err != nil {
			r.logger.Debug("could not read pinned tag", "module", m.Ident, "err", err)
		}
		m.PinnedVersion = tag
	}
	return nil
}

// FormatPath abbreviates the home directory prefix of path to "~".
func (r *Resolver) FormatPath(path string) string {
	if r.home == "" || r.home == "/" {
		return path
	}
	if path == r.home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, r.home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}

// Installed scans the storage root and returns the identifiers of every
// installed module, sorted. A missing root is an empty inventory.
func (r *Resolver) Installed() ([]Identifier, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", r.root, err)
	}

	var out []Identifier
	for _, e := range entries {
		if !e.IsDir() || e.Name() == CacheDirName || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(r.root, e.Name())

		if isCheckout(dir) && manifest.Exists(dir) {
			out = append(out, Identifier(e.Name()))
			continue
		}

		children, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, c := range children {
			if c.IsDir() && !strings.HasPrefix(c.Name(), ".") && isCheckout(filepath.Join(dir, c.Name())) {
				out = append(out, Identifier(e.Name()+"."+c.Name()))
			}
		}
	}

	slices.Sort(out)
	return out, nil
}

func isCheckout(dir string) bool {
	return vcs.Detect(dir).IsFound()
}
