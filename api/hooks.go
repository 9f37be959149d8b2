package api

import (
	"net/http"
	"time"
)

// BeforeHook runs before every attempt. Returning an error aborts the call.
type BeforeHook func(req *http.Request, attempt int) error

// AfterHook runs after every attempt with the raw outcome; useful for
// logging and metrics without coupling this package to a logger.
type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration, attempt int)

// Middleware wraps the underlying RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

func chain(rt http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
