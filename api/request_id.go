package api

import (
	"crypto/rand"
	"encoding/hex"
)

type RequestIDFunc func() string

// RequestIDConfig controls correlation id propagation. An empty Header
// disables injection.
type RequestIDConfig struct {
	Header string
	New    RequestIDFunc
}

func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header: "X-Request-ID",
		New:    DefaultRequestID,
	}
}

func DefaultRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Extremely unlikely; return empty rather than panicking.
		return ""
	}
	return hex.EncodeToString(b[:])
}
