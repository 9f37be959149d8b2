package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestPost_RoundTripsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected Content-Type: %q", ct)
		}
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	got, err := Post[map[string]any](context.Background(), c, "/echo", map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("echo mismatch: got %#v want %#v", got, want)
	}
}

func TestPost_NilBodyTransmitsNothing(t *testing.T) {
	var gotLen int64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotLen = int64(len(b))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	type ack struct {
		OK bool `json:"ok"`
	}
	got, err := Post[ack](context.Background(), c, "/fire", nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !got.OK {
		t.Fatal("response not decoded")
	}
	if gotLen != 0 {
		t.Fatalf("expected empty request body, got %d bytes", gotLen)
	}
}

func TestGet_DecodesTypedResponse(t *testing.T) {
	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user{ID: 7, Name: "ada"})
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	got, err := Get[user](context.Background(), c, "/users/7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != 7 || got.Name != "ada" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestDelete_AndPatch(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	t.Cleanup(srv.Close)

	type ack struct {
		Done bool `json:"done"`
	}
	c := newTestClient(t, srv.URL)

	if _, err := Delete[ack](context.Background(), c, "/items/1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", gotMethod)
	}

	if _, err := Patch[ack](context.Background(), c, "/items/1", map[string]string{"name": "x"}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got %s", gotMethod)
	}
}
