package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"newswatch/internal/domain"
	"newswatch/internal/ports"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRenderTimeout = 10 * time.Second
	maxBodySize          = int64(10 * 1024 * 1024)

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.5"
)

// Error is a recoverable fetch failure: network error, timeout, or non-2xx
// status. The orchestrator continues past it.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves page markup either statically or through an optional
// render capability.
type Fetcher struct {
	renderer      ports.Renderer
	timeout       time.Duration
	renderTimeout time.Duration
	maxRetries    uint64
}

var _ ports.Fetcher = (*Fetcher)(nil)

// Option tweaks fetcher construction.
type Option func(*Fetcher)

// WithTimeout sets the static fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRenderTimeout sets the full-page render wait budget.
func WithRenderTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.renderTimeout = d
		}
	}
}

// WithMaxRetries sets the retry budget for transient static-fetch failures.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRetries = uint64(n)
		}
	}
}

// New builds a fetcher. A nil renderer means rendered mode degrades to
// static fetch.
func New(renderer ports.Renderer, opts ...Option) *Fetcher {
	f := &Fetcher{
		renderer:      renderer,
		timeout:       defaultTimeout,
		renderTimeout: defaultRenderTimeout,
		maxRetries:    3,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves markup for pageURL. Rendered mode is used when the site
// requests it and a renderer is available; otherwise the result carries
// RenderFallback so the caller can log the degradation.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, site domain.Site) (domain.Page, error) {
	if site.UseRender {
		if f.renderer == nil {
			html, err := f.fetchStatic(ctx, pageURL, site)
			if err != nil {
				return domain.Page{}, err
			}
			return domain.Page{HTML: html, RenderFallback: true}, nil
		}

		html, err := f.renderer.Render(ctx, pageURL, f.renderTimeout)
		if err != nil {
			return domain.Page{}, &Error{URL: pageURL, Err: err}
		}
		return domain.Page{HTML: html}, nil
	}

	html, err := f.fetchStatic(ctx, pageURL, site)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{HTML: html}, nil
}

func (f *Fetcher) fetchStatic(ctx context.Context, pageURL string, site domain.Site) (string, error) {
	client := &http.Client{
		Timeout:   f.timeout,
		Transport: &http.Transport{Proxy: proxyFunc(site)},
	}

	var body string
	op := func() error {
		var err error
		body, err = doFetch(ctx, client, pageURL)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		var fetchErr *Error
		if errors.As(err, &fetchErr) {
			return "", fetchErr
		}
		return "", &Error{URL: pageURL, Err: err}
	}
	return body, nil
}

func doFetch(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", backoff.Permanent(&Error{URL: pageURL, Err: err})
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// Client errors do not recover on retry.
		return "", backoff.Permanent(&Error{URL: pageURL, Status: resp.StatusCode})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{URL: pageURL, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &Error{URL: pageURL, Err: err}
	}
	return string(raw), nil
}

// proxyFunc honors per-site proxy overrides for http and https separately,
// falling back to the environment proxy settings.
func proxyFunc(site domain.Site) func(*http.Request) (*url.URL, error) {
	if site.ProxyHTTP == "" && site.ProxyHTTPS == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		target := site.ProxyHTTP
		if req.URL.Scheme == "https" {
			target = site.ProxyHTTPS
		}
		if target == "" {
			return nil, nil
		}
		return url.Parse(target)
	}
}
