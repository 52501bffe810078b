// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/modpm/modpm/internal/config"
	"github.com/modpm/modpm/internal/testutil"
	"github.com/modpm/modpm/pkg/registry"
	"github.com/modpm/modpm/pkg/types"
)

type (
	// fakeRegistry serves the registry API from an in-memory module list.
	fakeRegistry struct {
		mu        sync.Mutex
		modules   map[string]registry.Metadata
		downloads map[string]int
	}

	staticConfig struct {
		cfg *config.Config
		err error
	}

	harness struct {
		root   string
		runner *testutil.FakeRunner
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (c staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if c.err != nil {
		return nil, c.err
	}
	cp := *c.cfg
	return &cp, nil
}

func newFakeRegistry(modules ...registry.Metadata) *fakeRegistry {
	r := &fakeRegistry{modules: map[string]registry.Metadata{}, downloads: map[string]int{}}
	for _, m := range modules {
		r.modules[m.Name] = m
	}
	return r
}

func (r *fakeRegistry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rest, isAPI := strings.CutPrefix(req.URL.Path, "/api/packages")
	switch {
	case req.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case !isAPI:
		http.NotFound(w, req)
	case req.Method == http.MethodGet && rest == "":
		list := make([]registry.Metadata, 0, len(r.modules))
		for _, m := range r.modules {
			list = append(list, m)
		}
		_ = json.NewEncoder(w).Encode(list)
	case req.Method == http.MethodPost && strings.HasSuffix(rest, "/incr_downloads"):
		name := strings.TrimSuffix(strings.TrimPrefix(rest, "/"), "/incr_downloads")
		if _, ok := r.modules[name]; !ok {
			http.NotFound(w, req)
			return
		}
		r.downloads[name]++
	case req.Method == http.MethodGet:
		m, ok := r.modules[strings.TrimPrefix(rest, "/")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_ = json.NewEncoder(w).Encode(m)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (r *fakeRegistry) downloadCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.downloads[name]
}

func (r *fakeRegistry) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(r)
	srv.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(srv.Close)
	return srv
}

// cloner makes the fake runner lay out a checkout for every clone, with the
// manifest registered for the cloned URL.
func cloner(manifests map[string]string) func([]string) error {
	return func(argv []string) error {
		if len(argv) < 3 || argv[1] != "clone" {
			return nil
		}
		path, url := argv[len(argv)-1], argv[len(argv)-2]
		marker := ".git"
		if argv[0] == "hg" {
			marker = ".hg"
		}
		if err := os.MkdirAll(filepath.Join(path, marker), 0o755); err != nil {
			return err
		}
		if content, ok := manifests[url]; ok {
			return os.WriteFile(filepath.Join(path, "modpm.cue"), []byte(content), 0o644)
		}
		return nil
	}
}

func newHarness(t *testing.T, mirrors []string, mutate ...func(*config.Config)) *harness {
	t.Helper()

	root := filepath.Join(t.TempDir(), "modules")
	cfg := config.DefaultConfig()
	cfg.ModulesPath = root
	cfg.Mirrors = mirrors
	for _, m := range mutate {
		m(cfg)
	}

	h := &harness{
		root:   root,
		runner: &testutil.FakeRunner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.app = NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Runner: h.runner,
		Getenv: func(string) string { return "" },
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) types.ExitCode {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	return Execute(context.Background(), h.app, args)
}
