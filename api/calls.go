package api

import (
	"context"
	"net/http"
)

// The typed entry points. Methods cannot carry type parameters, so these are
// package functions over a *Client; each resolves with a decoded T or rejects
// with a single *Error.

// Get issues a GET and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (T, error) {
	return call[T](ctx, c, http.MethodGet, endpoint, nil, false, opts)
}

// Post issues a POST. A nil body transmits no body at all.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	return call[T](ctx, c, http.MethodPost, endpoint, body, true, opts)
}

// Put issues a PUT. A nil body transmits no body at all.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	return call[T](ctx, c, http.MethodPut, endpoint, body, true, opts)
}

// Patch issues a PATCH. A nil body transmits no body at all.
func Patch[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	return call[T](ctx, c, http.MethodPatch, endpoint, body, true, opts)
}

// Delete issues a DELETE and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (T, error) {
	return call[T](ctx, c, http.MethodDelete, endpoint, nil, false, opts)
}

func call[T any](ctx context.Context, c *Client, method, endpoint string, body any, hasBody bool, opts []RequestOption) (T, error) {
	var out T

	reqOpts := opts
	if hasBody && body != nil {
		reqOpts = make([]RequestOption, 0, len(opts)+1)
		reqOpts = append(reqOpts, WithJSON(body))
		reqOpts = append(reqOpts, opts...)
	}

	req, err := c.NewRequest(ctx, method, endpoint, reqOpts...)
	if err != nil {
		var zero T
		return zero, wrapBuildErr(method, endpoint, err)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if err := c.DoInto(req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// wrapBuildErr keeps the single-error-shape invariant for failures that
// happen before the transport is ever reached.
func wrapBuildErr(method, endpoint string, err error) error {
	if _, ok := AsError(err); ok {
		return err
	}
	return newTransportError(method, endpoint, err, false)
}
