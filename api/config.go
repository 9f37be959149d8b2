package api

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a call when neither the caller's context nor a
// per-request option supplies an earlier deadline.
const DefaultTimeout = 10 * time.Second

// DefaultMaxErrorBodyBytes limits how much of a failed response body is
// captured into Error.RawBody.
const DefaultMaxErrorBodyBytes int64 = 64 << 10 // 64KiB

// Config configures a Client. Use DefaultConfig() as a baseline.
type Config struct {
	// BaseURL is the absolute URL relative endpoints resolve against.
	// Endpoints that are themselves absolute bypass it.
	BaseURL string

	// Timeout is the per-call upper bound. If the call context or a request
	// option carries an earlier deadline, the earlier one wins.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// Transport is the underlying RoundTripper. If nil, a tuned default is used.
	Transport http.RoundTripper

	// DefaultHeaders are copied into every request (caller headers win).
	DefaultHeaders http.Header

	// UserAgent is set when the request does not already have a User-Agent header.
	UserAgent string

	// Tokens supplies the bearer credential. When nil, or when it reports no
	// token, no Authorization header is sent.
	Tokens TokenSource

	// Retry configures automatic retries. The zero value disables them;
	// callers that want retries opt in with a populated RetryConfig.
	Retry RetryConfig

	// MaxErrorBodyBytes limits how many bytes of a failed response are kept
	// for diagnostics. If zero, DefaultMaxErrorBodyBytes is used.
	MaxErrorBodyBytes int64

	// RequestID configures correlation id propagation.
	RequestID RequestIDConfig
}

// DefaultConfig returns the packaged baseline: 10s timeout, tuned transport,
// a JSON content-type default, no retries.
func DefaultConfig() Config {
	hdr := make(http.Header)
	hdr.Set("Content-Type", "application/json")
	return Config{
		Timeout:           DefaultTimeout,
		Transport:         DefaultTransport(),
		DefaultHeaders:    hdr,
		Retry:             RetryConfig{},
		MaxErrorBodyBytes: DefaultMaxErrorBodyBytes,
		RequestID:         DefaultRequestIDConfig(),
	}
}
