package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusError_JSONMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found","code":"ENOENT"}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := Get[map[string]any](context.Background(), c, "/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	ae, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if ae.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ae.Status)
	}
	if ae.Message != "Not found" {
		t.Fatalf("expected message from body, got %q", ae.Message)
	}
	body, ok := ae.Data.(map[string]any)
	if !ok || body["code"] != "ENOENT" {
		t.Fatalf("diagnostic body not retained: %#v", ae.Data)
	}
}

func TestStatusError_NonJSONFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := Get[string](context.Background(), c, "/broken")
	if err == nil {
		t.Fatal("expected error")
	}
	ae, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if ae.Message != "Request failed with status 500" {
		t.Fatalf("unexpected message: %q", ae.Message)
	}
	if string(ae.RawBody) != "boom" {
		t.Fatalf("raw body not captured: %q", ae.RawBody)
	}
}

func TestStatusError_JSONWithoutMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := Get[any](context.Background(), c, "/bad")
	ae, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if ae.Message != "Request failed with status 400" {
		t.Fatalf("unexpected message: %q", ae.Message)
	}
	if ae.Data == nil {
		t.Fatal("decoded body should still be attached")
	}
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("underlying")
	err := newTransportError("GET", "http://x", cause, false)

	if !IsTransport(err) {
		t.Fatal("IsTransport = false")
	}
	if !IsStatus(err, 0) {
		t.Fatal("IsStatus(0) = false")
	}
	if !errors.Is(err, cause) {
		t.Fatal("Unwrap chain broken")
	}
	if err.Error() != "underlying" {
		t.Fatalf("Error() = %q", err.Error())
	}

	te := newTimeoutError("GET", "http://x", context.DeadlineExceeded)
	if !IsTimeout(te) || te.Status != 408 {
		t.Fatalf("timeout shape wrong: %+v", te)
	}
}
