package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues typed HTTP requests against a single backend.
// All methods are safe for concurrent use; each call owns its own deadline.
type Client struct {
	httpClient *http.Client

	baseURL *url.URL

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string
	tokens         TokenSource

	retry      RetryConfig
	maxErrBody int64

	requestID RequestIDConfig

	before []BeforeHook
	after  []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	var bu *url.URL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &url.Error{Op: "parse", URL: cfg.BaseURL, Err: errors.New("base url must be absolute")}
		}
		// Normalize so relative endpoints resolve as expected (treat the
		// BaseURL path as a prefix).
		if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		bu = u
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody == 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	// Clone headers to avoid caller mutation.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		for _, v := range vv {
			hdr.Add(k, v)
		}
	}

	c := &Client{
		httpClient:     &http.Client{Transport: rt},
		baseURL:        bu,
		timeout:        timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		tokens:         cfg.Tokens,
		retry:          cfg.Retry,
		maxErrBody:     maxErrBody,
		requestID:      cfg.RequestID,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	if c.retry.enabled() && c.retry.Backoff == nil {
		c.retry.Backoff = DefaultBackoff()
	}
	return c, nil
}

// WithMiddleware wraps the underlying RoundTripper with middleware.
// Call during initialization, before the client is used concurrently.
func (c *Client) WithMiddleware(mws ...Middleware) *Client {
	if len(mws) == 0 {
		return c
	}
	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c.httpClient.Transport = chain(rt, mws)
	return c
}

// WithHooks adds hooks (executed for every attempt).
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

func (c *Client) resolveURL(endpoint string, q url.Values) (*url.URL, error) {
	p := strings.TrimSpace(endpoint)
	if p == "" {
		return nil, errors.New("empty endpoint")
	}
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		// Absolute endpoints bypass the base URL entirely.
		u2 := *u
		mergeQuery(&u2, q)
		return &u2, nil
	}
	if c.baseURL == nil {
		return nil, errors.New("relative endpoint requires BaseURL")
	}
	// Treat a leading "/" as relative so a BaseURL with a path prefix
	// (e.g. https://host/api) works with "/users" as expected.
	if strings.HasPrefix(u.Path, "/") {
		u2 := *u
		u2.Path = strings.TrimPrefix(u2.Path, "/")
		u = &u2
	}
	u2 := c.baseURL.ResolveReference(u)
	mergeQuery(u2, q)
	return u2, nil
}

func mergeQuery(u *url.URL, q url.Values) {
	if q == nil {
		return
	}
	qq := u.Query()
	for k, vv := range q {
		for _, v := range vv {
			qq.Add(k, v)
		}
	}
	u.RawQuery = qq.Encode()
}

func withEarlierDeadline(ctx context.Context, deadline time.Time) (context.Context, context.CancelFunc) {
	if deadline.IsZero() {
		return ctx, func() {}
	}
	if existing, ok := ctx.Deadline(); ok && !existing.After(deadline) {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, deadline)
}

func earliestDeadline(base context.Context, timeouts ...time.Duration) (time.Time, bool) {
	now := time.Now()
	var earliest time.Time
	for _, d := range timeouts {
		if d <= 0 {
			continue
		}
		dd := now.Add(d)
		if earliest.IsZero() || dd.Before(earliest) {
			earliest = dd
		}
	}
	if dl, ok := base.Deadline(); ok {
		if earliest.IsZero() || dl.Before(earliest) {
			earliest = dl
		}
	}
	if earliest.IsZero() {
		return time.Time{}, false
	}
	return earliest, true
}

// Do executes the request and mirrors net/http semantics: transport errors
// come back as errors, non-2xx responses as resp with nil error. Use DoInto
// or the generic helpers for normalized-error semantics.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.send(req)
}

// send runs the request with the timeout policy and optional retries.
// It performs no error normalization; do() layers that on top.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ctx := req.Context()
	// A per-call timeout replaces the client default rather than competing
	// with it; an earlier caller-context deadline still wins.
	timeout := c.timeout
	if rt := requestTimeout(ctx); rt > 0 {
		timeout = rt
	}
	if dl, ok := earliestDeadline(ctx, timeout); ok {
		ctx2, cancel := withEarlierDeadline(ctx, dl)
		defer cancel()
		ctx = ctx2
	}
	req = req.Clone(ctx)

	maxAttempts := c.retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastResp *http.Response
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 1 && req.Body != nil && req.Body != http.NoBody {
			if req.GetBody == nil {
				return nil, errors.New("api: request body is not replayable (missing req.GetBody)")
			}
			b, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = b
		}

		for _, h := range c.before {
			if h == nil {
				continue
			}
			if err := h(req, attempt); err != nil {
				return nil, err
			}
		}

		t0 := time.Now()
		resp, err := c.httpClient.Do(req)
		dur := time.Since(t0)

		for _, h := range c.after {
			if h != nil {
				h(req, resp, err, dur, attempt)
			}
		}

		if err == nil && resp != nil && resp.StatusCode < 400 {
			return resp, nil
		}

		lastResp = resp
		lastErr = err

		retry := attempt < maxAttempts && c.retry.canRetryMethod(req.Method)
		if retry {
			switch {
			case err != nil:
				retry = shouldRetryNetErr(err)
			case resp != nil:
				retry = c.retry.canRetryStatus(resp.StatusCode)
			default:
				retry = false
			}
		}
		// Replaying a body requires req.GetBody.
		if retry && req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			retry = false
		}
		if !retry {
			break
		}

		// Drain for connection reuse before retrying.
		if resp != nil && resp.Body != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
		}

		wait := c.retry.Backoff.Next(attempt)
		if c.retry.RespectRetryAfter && resp != nil &&
			(resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
			if ra, ok := parseRetryAfter(resp, time.Now()); ok {
				wait = ra
				if c.retry.MaxRetryAfter > 0 && wait > c.retry.MaxRetryAfter {
					wait = c.retry.MaxRetryAfter
				}
			}
		}
		if err := retrySleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return lastResp, lastErr
}

// do executes the request and funnels every failure into *Error: timeouts
// become 408, other transport failures 0, non-2xx responses keep their status
// with the body captured for diagnostics.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.send(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, c.normalizeTransportErr(req, err)
	}
	if resp == nil {
		return nil, newTransportError(req.Method, req.URL.String(), errors.New("nil response"), false)
	}
	if resp.StatusCode >= 400 {
		return nil, c.statusError(req, resp)
	}
	return resp, nil
}

func (c *Client) normalizeTransportErr(req *http.Request, err error) *Error {
	method, u := req.Method, req.URL.String()
	if isDeadlineErr(err) {
		return newTimeoutError(method, u, err)
	}
	retryable := c.retry.canRetryMethod(method) && shouldRetryNetErr(err)
	return newTransportError(method, u, err, retryable)
}

// isDeadlineErr matches the client-enforced deadline (including one inherited
// from the caller's context). Transport-level timeouts stay status 0.
func isDeadlineErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// statusError captures up to maxErrBody bytes of the failed response and
// closes it.
func (c *Client) statusError(req *http.Request, resp *http.Response) *Error {
	var raw []byte
	if resp.Body != nil {
		raw, _ = io.ReadAll(io.LimitReader(resp.Body, c.maxErrBody))
		_ = resp.Body.Close()
	}
	retryable := c.retry.canRetryMethod(req.Method) && c.retry.canRetryStatus(resp.StatusCode)
	return newStatusError(req.Method, req.URL.String(), resp.StatusCode,
		isJSONContentType(resp.Header.Get("Content-Type")), raw, retryable)
}
