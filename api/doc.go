// Package api provides a typed HTTP client for dashboard backends:
// - base URL resolution with absolute-endpoint bypass
// - per-call timeouts enforced as context deadlines (default 10s)
// - bearer token injection from a pluggable TokenSource
// - JSON/text response negotiation with generic decode helpers
// - a single normalized error shape (0 = transport, 408 = timeout, else HTTP)
// - opt-in retry and hook points for logging/metrics without hard dependencies
package api
