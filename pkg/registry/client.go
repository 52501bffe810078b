// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-multierror"
)

// maxResponseBytes bounds how much of a mirror response is read.
const maxResponseBytes = 10 << 20

type (
	// Metadata is a registry record for one module.
	Metadata struct {
		Name      string `json:"name"`
		URL       string `json:"url"`
		VCS       string `json:"vcs,omitempty"`
		Downloads int    `json:"nr_downloads"`
	}

	// Client queries registry mirrors with failover.
	Client struct {
		httpClient *http.Client
		mirrors    []string
		logger     *log.Logger
		shuffle    func([]string)
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// outcome classifies one mirror's answer.
	outcome int
)

const (
	outcomeOK outcome = iota
	outcomeNotFound
	outcomeFailed
)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithLogger sets the logger used for per-mirror diagnostics.
func WithLogger(l *log.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// WithShuffle replaces the mirror shuffle. Tests pass a no-op to keep the
// configured order.
func WithShuffle(fn func([]string)) ClientOption {
	return func(cl *Client) { cl.shuffle = fn }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) { cl.userAgent = ua }
}

// NoShuffle keeps mirrors in their configured order.
func NoShuffle([]string) {}

// New creates a Client for mirrors. The mirror order is shuffled once here
// and stays fixed for the client's lifetime.
func New(mirrors []string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: cleanhttp.DefaultClient(),
		logger:     log.New(io.Discard),
		shuffle:    randomShuffle,
		userAgent:  "modpm",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mirrors = make([]string, 0, len(mirrors))
	for _, m := range mirrors {
		if m = strings.TrimRight(strings.TrimSpace(m), "/"); m != "" {
			c.mirrors = append(c.mirrors, m)
		}
	}
	c.shuffle(c.mirrors)
	return c
}

// Mirrors returns the mirrors in the order they are tried.
func (c *Client) Mirrors() []string { return slices.Clone(c.mirrors) }

// FetchMetadata returns the first complete record any mirror has for name.
func (c *Client) FetchMetadata(ctx context.Context, name string) (Metadata, error) {
	var meta Metadata
	err := c.failover(ctx, "fetch metadata for", name, func(mirror string) (outcome, error) {
		body, status, err := c.get(ctx, mirror+"/api/packages/"+url.PathEscape(name))
		if err != nil {
			return outcomeFailed, err
		}
		if status == http.StatusNotFound || (status == http.StatusOK && isEmptyOrNotFound(body)) {
			return outcomeNotFound, ErrNotFound
		}
		if status != http.StatusOK {
			return outcomeFailed, fmt.Errorf("%w: unexpected status %d", ErrMirror, status)
		}

		var m Metadata
		if err := json.Unmarshal(body, &m); err != nil {
			return outcomeFailed, fmt.Errorf("%w: malformed metadata: %w", ErrMirror, err)
		}
		if m.Name == "" || m.URL == "" {
			return outcomeFailed, fmt.Errorf("%w: incomplete metadata (name and url are required)", ErrMirror)
		}
		meta = m
		return outcomeOK, nil
	})
	return meta, err
}

// ProbeAvailable returns the first mirror that answers a HEAD request with a
// status below 500.
func (c *Client) ProbeAvailable(ctx context.Context) (string, error) {
	var found string
	err := c.failover(ctx, "probe", "", func(mirror string) (outcome, error) {
		resp, err := c.doRequest(ctx, http.MethodHead, mirror, nil)
		if err != nil {
			return outcomeFailed, err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return outcomeFailed, fmt.Errorf("%w: status %d", ErrMirror, resp.StatusCode)
		}
		found = mirror
		return outcomeOK, nil
	})
	if err != nil {
		var ex *ExhaustedError
		if errors.As(err, &ex) {
			ex.sentinel = ErrMirrorUnreachable
		}
		return "", err
	}
	return found, nil
}

// IncrementDownloads bumps the download counter of name on the first mirror
// that accepts the request.
func (c *Client) IncrementDownloads(ctx context.Context, name string) error {
	return c.failover(ctx, "increment downloads of", name, func(mirror string) (outcome, error) {
		target := mirror + "/api/packages/" + url.PathEscape(name) + "/incr_downloads"
		resp, err := c.doRequest(ctx, http.MethodPost, target, http.NoBody)
		if err != nil {
			return outcomeFailed, err
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusOK:
			return outcomeOK, nil
		case http.StatusNotFound:
			return outcomeNotFound, ErrNotFound
		default:
			return outcomeFailed, fmt.Errorf("%w: unexpected status %d", ErrMirror, resp.StatusCode)
		}
	})
}

// ListModules returns the full module listing from the first mirror that
// serves one. Entries without a name are dropped.
func (c *Client) ListModules(ctx context.Context) ([]Metadata, error) {
	var list []Metadata
	err := c.failover(ctx, "list modules", "", func(mirror string) (outcome, error) {
		body, status, err := c.get(ctx, mirror+"/api/packages")
		if err != nil {
			return outcomeFailed, err
		}
		if status != http.StatusOK {
			return outcomeFailed, fmt.Errorf("%w: unexpected status %d", ErrMirror, status)
		}

		var all []Metadata
		if err := json.Unmarshal(body, &all); err != nil {
			return outcomeFailed, fmt.Errorf("%w: malformed listing: %w", ErrMirror, err)
		}
		list = make([]Metadata, 0, len(all))
		for _, m := range all {
			if m.Name != "" {
				list = append(list, m)
			}
		}
		return outcomeOK, nil
	})
	return list, err
}

// Search returns the listed modules whose name contains any of keywords,
// compared case-insensitively, sorted by name.
func (c *Client) Search(ctx context.Context, keywords []string) ([]Metadata, error) {
	all, err := c.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, keywords), nil
}

// Filter keeps the entries whose lowercase name contains any lowercase
// keyword. No keywords keeps everything.
func Filter(all []Metadata, keywords []string) []Metadata {
	needles := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			needles = append(needles, k)
		}
	}

	var out []Metadata
	for _, m := range all {
		name := strings.ToLower(m.Name)
		if len(needles) == 0 || slices.ContainsFunc(needles, func(n string) bool { return strings.Contains(name, n) }) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b Metadata) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// failover calls try for each mirror in order until one returns outcomeOK.
func (c *Client) failover(ctx context.Context, op, subject string, try func(mirror string) (outcome, error)) error {
	errs := newMultiError()
	notFound := 0

	for _, mirror := range c.mirrors {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := try(mirror)
		switch res {
		case outcomeOK:
			return nil
		case outcomeNotFound:
			notFound++
			c.logger.Debug("not found on mirror", "mirror", mirror, "op", op, "module", subject)
		default:
			c.logger.Warn("mirror failed", "mirror", mirror, "op", op, "err", err)
		}
		errs = multierror.Append(errs, &MirrorError{Mirror: mirror, Err: err})
	}

	sentinel := ErrMirror
	if len(c.mirrors) > 0 && notFound == len(c.mirrors) {
		sentinel = ErrNotFound
	}
	return &ExhaustedError{Op: op, Subject: subject, Errs: errs, sentinel: sentinel}
}

// get performs a GET and returns the bounded body and status.
func (c *Client) get(ctx context.Context, target string) ([]byte, int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %w", ErrMirror, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) doRequest(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrMirror, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("registry request", "method", method, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMirror, err)
	}
	return resp, nil
}

// isEmptyOrNotFound matches the bodies some mirrors send for a missing
// module alongside a 200 status.
func isEmptyOrNotFound(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || string(trimmed) == "404"
}

func randomShuffle(s []string) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
