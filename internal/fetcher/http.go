// Package fetcher performs batched, order-preserving retrieval over HTTP
// with retry and per-host rate limiting. It is the transport collaborator
// for the STN and NFHL clients; its errors propagate to callers unwrapped
// by the domain layers.
package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// Options configures the HTTP retriever.
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	MaxConcurrent int
	RateLimiters  map[string]*rate.Limiter
}

// DefaultRateLimiters returns the default per-host rate limiters for the
// flood data providers.
func DefaultRateLimiters() map[string]*rate.Limiter {
	return map[string]*rate.Limiter{
		"stn.wim.usgs.gov": rate.NewLimiter(10, 10),
		"hazards.fema.gov": rate.NewLimiter(5, 5),
	}
}

// HTTPRetriever implements ordered batch retrieval using net/http.
type HTTPRetriever struct {
	client   *http.Client
	opts     Options
	limiters map[string]*rate.Limiter
}

// NewHTTPRetriever creates an HTTPRetriever with the given options.
func NewHTTPRetriever(opts Options) *HTTPRetriever {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.MaxConcurrent == 0 {
		opts.MaxConcurrent = 4
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "floodwatch/1.0"
	}
	limiters := opts.RateLimiters
	if limiters == nil {
		limiters = DefaultRateLimiters()
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPRetriever{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: limiters,
	}
}

// RetrieveJSON fetches every URL and returns the raw bodies in request
// order, one per URL. perURLParams, when non-nil, must be the same length
// as urls; each entry is appended to the matching URL as a query string.
func (f *HTTPRetriever) RetrieveJSON(ctx context.Context, urls []string, perURLParams []map[string]string) ([][]byte, error) {
	if perURLParams != nil && len(perURLParams) != len(urls) {
		return nil, eris.Errorf("fetcher: %d urls but %d param sets", len(urls), len(perURLParams))
	}

	results := make([][]byte, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.MaxConcurrent)

	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		var params map[string]string
		if perURLParams != nil {
			params = perURLParams[i]
		}
		g.Go(func() error {
			body, _, err := f.get(gctx, rawURL, params)
			if err != nil {
				return err
			}
			results[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RetrieveText fetches every URL and returns the bodies as UTF-8 strings
// in request order. Bodies declaring a non-UTF-8 charset in Content-Type
// (the dictionary CSVs are served as windows-1252 now and then) are
// decoded before returning.
func (f *HTTPRetriever) RetrieveText(ctx context.Context, urls []string) ([]string, error) {
	results := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.MaxConcurrent)

	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		g.Go(func() error {
			body, contentType, err := f.get(gctx, rawURL, nil)
			if err != nil {
				return err
			}
			text, err := decodeCharset(body, contentType)
			if err != nil {
				return eris.Wrapf(err, "fetcher: decode body from %s", rawURL)
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (f *HTTPRetriever) get(ctx context.Context, rawURL string, params map[string]string) ([]byte, string, error) {
	fullURL, err := withQuery(rawURL, params)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, fullURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", eris.Wrapf(err, "fetcher: read body from %s", fullURL)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (f *HTTPRetriever) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	lim := f.limiterFor(req.URL.Host)

	var lastErr error
	for attempt := 0; attempt < f.opts.MaxRetries; attempt++ {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetcher: rate limiter wait")
		}

		cloned := req.Clone(ctx)
		resp, err := f.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			f.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("fetcher: http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("retryable status, backing off",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			f.backoff(ctx, attempt)
			continue
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "fetcher: all retries exhausted")
}

func (f *HTTPRetriever) limiterFor(host string) *rate.Limiter {
	if lim, ok := f.limiters[host]; ok {
		return lim
	}
	return rate.NewLimiter(20, 20)
}

func (f *HTTPRetriever) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	d = d + jitter

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func withQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeCharset converts a response body to UTF-8 based on the charset
// parameter of its Content-Type. Absent or UTF-8 charsets pass through.
func decodeCharset(body []byte, contentType string) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil
	}
	charset, ok := params["charset"]
	if !ok || charset == "utf-8" || charset == "UTF-8" {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", eris.Wrapf(err, "unsupported charset %q", charset)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrapf(err, "decode charset %q", charset)
	}
	return string(decoded), nil
}
