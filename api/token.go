package api

// TokenSource supplies the bearer credential attached to outgoing requests.
// Implementations must be safe for concurrent use; the client consults the
// source on every call so a rotated token takes effect immediately.
type TokenSource interface {
	// Token returns the current credential and whether one is present.
	// When ok is false no Authorization header is sent.
	Token() (token string, ok bool)
}

// StaticToken is a TokenSource backed by a fixed string.
// The empty string reports no token.
type StaticToken string

func (s StaticToken) Token() (string, bool) { return string(s), s != "" }

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() (string, bool)

func (f TokenFunc) Token() (string, bool) { return f() }
