// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMirror(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(mirrors ...string) *Client {
	return New(mirrors, WithShuffle(NoShuffle))
}

func TestFetchMetadata_FailoverFromNotFound(t *testing.T) {
	t.Parallel()

	var hitsA atomic.Int32
	mirrorA := newMirror(t, func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		assert.Equal(t, "/api/packages/alice.markdown", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})
	mirrorB := newMirror(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Metadata{
			Name:      "alice.markdown",
			URL:       "https://git.example.com/alice/markdown",
			VCS:       "git",
			Downloads: 42,
		})
	})

	meta, err := newTestClient(mirrorA.URL, mirrorB.URL).FetchMetadata(context.Background(), "alice.markdown")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hitsA.Load())
	assert.Equal(t, "alice.markdown", meta.Name)
	assert.Equal(t, "https://git.example.com/alice/markdown", meta.URL)
	assert.Equal(t, "git", meta.VCS)
	assert.Equal(t, 42, meta.Downloads)
}

func TestFetchMetadata_NotFoundBodies(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "404", "  404\n"} {
		t.Run("body "+body, func(t *testing.T) {
			t.Parallel()

			mirror := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := newTestClient(mirror.URL).FetchMetadata(context.Background(), "pcre")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFetchMetadata_AllMirrorsNotFound(t *testing.T) {
	t.Parallel()

	notFound := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }
	a := newMirror(t, notFound)
	b := newMirror(t, notFound)

	_, err := newTestClient(a.URL, b.URL).FetchMetadata(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrMirrorUnreachable)

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Len(t, ex.MirrorErrors(), 2)
	assert.Contains(t, err.Error(), a.URL)
	assert.Contains(t, err.Error(), b.URL)
}

func TestFetchMetadata_MixedFailuresAreNotNotFound(t *testing.T) {
	t.Parallel()

	a := newMirror(t, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	b := newMirror(t, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) })

	_, err := newTestClient(a.URL, b.URL).FetchMetadata(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrMirror)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestFetchMetadata_SkipsUnusableRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{not json"},
		{name: "missing url", body: `{"name":"alice.markdown"}`},
		{name: "missing name", body: `{"url":"https://git.example.com/alice/markdown"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bad := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			good := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"name":"alice.markdown","url":"https://git.example.com/alice/markdown"}`))
			})

			meta, err := newTestClient(bad.URL, good.URL).FetchMetadata(context.Background(), "alice.markdown")
			require.NoError(t, err)
			assert.Equal(t, "https://git.example.com/alice/markdown", meta.URL)
		})
	}
}

func TestFetchMetadata_UnreachableMirror(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	good := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"pcre","url":"https://git.example.com/modpm/pcre"}`))
	})

	meta, err := newTestClient(deadURL, good.URL).FetchMetadata(context.Background(), "pcre")
	require.NoError(t, err)
	assert.Equal(t, "pcre", meta.Name)
}

func TestProbeAvailable(t *testing.T) {
	t.Parallel()

	broken := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	notFoundButUp := newMirror(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := newTestClient(broken.URL, notFoundButUp.URL).ProbeAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notFoundButUp.URL, got)
}

func TestProbeAvailable_NoneReachable(t *testing.T) {
	t.Parallel()

	broken := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := newTestClient(broken.URL).ProbeAvailable(context.Background())
	require.ErrorIs(t, err, ErrMirrorUnreachable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestProbeAvailable_NoMirrors(t *testing.T) {
	t.Parallel()

	_, err := newTestClient().ProbeAvailable(context.Background())
	require.ErrorIs(t, err, ErrMirrorUnreachable)
}

func TestIncrementDownloads(t *testing.T) {
	t.Parallel()

	var hitsB atomic.Int32
	a := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	b := newMirror(t, func(w http.ResponseWriter, r *http.Request) {
		hitsB.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/packages/alice.markdown/incr_downloads", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, newTestClient(a.URL, b.URL).IncrementDownloads(context.Background(), "alice.markdown"))
	assert.Equal(t, int32(1), hitsB.Load())
}

func TestIncrementDownloads_AllFail(t *testing.T) {
	t.Parallel()

	a := newMirror(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := newTestClient(a.URL).IncrementDownloads(context.Background(), "alice.markdown")
	require.ErrorIs(t, err, ErrMirror)
}

func TestListModulesAndSearch(t *testing.T) {
	t.Parallel()

	listing := []Metadata{
		{Name: "alice.markdown", URL: "https://git.example.com/alice/markdown"},
		{Name: "pcre", URL: "https://git.example.com/modpm/pcre"},
		{Name: "bob.Markup", URL: "https://git.example.com/bob/markup"},
		{URL: "https://git.example.com/nameless"},
	}
	mirror := newMirror(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/packages", r.URL.Path)
		_ = json.NewEncoder(w).Encode(listing)
	})
	client := newTestClient(mirror.URL)

	all, err := client.ListModules(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := client.Search(context.Background(), []string{"MARK"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice.markdown", found[0].Name)
	assert.Equal(t, "bob.Markup", found[1].Name)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	all := []Metadata{{Name: "zlib"}, {Name: "pcre"}, {Name: "alice.regex"}}

	assert.Len(t, Filter(all, nil), 3)
	assert.Equal(t, []Metadata{{Name: "alice.regex"}, {Name: "pcre"}}, Filter(all, []string{"re", ""}))
	assert.Empty(t, Filter(all, []string{"yaml"}))
}

func TestNew_ShufflesOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	reverse := func(s []string) {
		calls++
		for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
			s[i], s[j] = s[j], s[i]
		}
	}
	c := New([]string{"https://a.example/", " ", "https://b.example"}, WithShuffle(reverse))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"https://b.example", "https://a.example"}, c.Mirrors())
	_, _ = c.ListModules(canceledContext())
	assert.Equal(t, 1, calls)
}

func TestFailover_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	mirror := newMirror(t, func(w http.ResponseWriter, _ *http.Request) { hits.Add(1) })

	_, err := newTestClient(mirror.URL).FetchMetadata(canceledContext(), "pcre")
	require.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, hits.Load())
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
