package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecode_PlainTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("pong"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	got, err := Get[string](context.Background(), c, "/ping")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "pong" {
		t.Fatalf("expected pong, got %q", got)
	}
}

func TestDecode_JSONContentTypeVariants(t *testing.T) {
	for _, ct := range []string{
		"application/json",
		"application/json; charset=utf-8",
		"application/problem+json",
	} {
		if !isJSONContentType(ct) {
			t.Errorf("isJSONContentType(%q) = false", ct)
		}
	}
	for _, ct := range []string{"", "text/plain", "text/html; charset=utf-8"} {
		if isJSONContentType(ct) {
			t.Errorf("isJSONContentType(%q) = true", ct)
		}
	}
}

func TestDecode_MalformedJSONLabeledAsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"broken`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := Get[map[string]any](context.Background(), c, "/garbled")
	if err == nil {
		t.Fatal("expected decode error")
	}
	ae, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if ae.Status != StatusTransport {
		t.Fatalf("expected status 0, got %d", ae.Status)
	}
	if ae.Cause == nil {
		t.Fatal("decode failure should be retained as cause")
	}
}

func TestDecode_EmptyJSONBodyLeavesZeroValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	got, err := Get[map[string]any](context.Background(), c, "/empty")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected zero value, got %#v", got)
	}
}
