package source

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"github.com/JustBryant/YGOMod-Card-Database/internal/cache"
	"github.com/JustBryant/YGOMod-Card-Database/internal/ratelimit"
)

const maxFetchAttempts = 3

// Options configures an HTTP source.
type Options struct {
	Timeout  time.Duration      // per-request timeout, default 30s
	Limiter  *ratelimit.Limiter // optional fetch pacing
	Cache    *cache.Cache       // optional document cache
	CacheTTL time.Duration      // TTL for cached documents
}

// HTTPSource fetches repository documents over HTTP, resolving paths
// against the index document's base URL.
type HTTPSource struct {
	base     *url.URL
	client   *http.Client
	limiter  *ratelimit.Limiter
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewHTTPSource creates a source for the given base URL. The base must end
// at the directory containing the index document.
func NewHTTPSource(base *url.URL, opts Options) *HTTPSource {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		base:     base,
		client:   &http.Client{Timeout: timeout},
		limiter:  opts.Limiter,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

func (s *HTTPSource) Location() string {
	return s.base.String()
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("resolve document %q: %w", name, err)
	}
	target := s.base.ResolveReference(ref).String()

	if s.cache != nil {
		var data []byte
		if found, _ := s.cache.Get(cache.DocumentKey(target), &data); found {
			return data, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	data, err := s.fetchWithRetry(ctx, target)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Put(cache.DocumentKey(target), data, s.cacheTTL)
	}
	return data, nil
}

func (s *HTTPSource) fetchWithRetry(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, retryable, err := s.fetchOnce(ctx, target)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (s *HTTPSource) fetchOnce(ctx context.Context, target string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.5")
	// Setting Accept-Encoding by hand disables the transport's automatic
	// gzip handling, so both encodings are decoded below.
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("fetch %s: HTTP %d: %s", target, resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, resp.StatusCode >= 500, err
	}

	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("decode gzip from %s: %w", target, err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", target, err)
	}
	return data, false, nil
}

// ListJSON fetches the repository root and parses it as a directory
// listing, returning the hrefs of JSON documents. Servers that expose no
// autoindex page simply yield an error the caller treats as "unknown".
func (s *HTTPSource) ListJSON(ctx context.Context) ([]string, error) {
	page, err := s.Fetch(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch repository listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parse repository listing: %w", err)
	}

	var names []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimPrefix(href, "./")
		if !strings.HasSuffix(strings.ToLower(href), ".json") {
			return
		}
		if strings.Contains(href, "://") || path.IsAbs(href) {
			// Keep only repository-relative entries.
			return
		}
		names = append(names, href)
	})
	return names, nil
}
