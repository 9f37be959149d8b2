package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PaulButtle/dashkit/api"
)

func TestReadBody(t *testing.T) {
	t.Cleanup(func() { flagData = "" })

	flagData = ""
	v, err := readBody(strings.NewReader(""))
	if err != nil || v != nil {
		t.Fatalf("empty --data: %v, %v", v, err)
	}

	flagData = `{"a":1}`
	v, err = readBody(strings.NewReader(""))
	if err != nil {
		t.Fatalf("inline --data: %v", err)
	}
	if m, ok := v.(map[string]any); !ok || m["a"] != float64(1) {
		t.Fatalf("unexpected body: %#v", v)
	}

	flagData = "-"
	v, err = readBody(strings.NewReader(`[1,2]`))
	if err != nil {
		t.Fatalf("stdin --data: %v", err)
	}
	if _, ok := v.([]any); !ok {
		t.Fatalf("unexpected stdin body: %#v", v)
	}

	flagData = "not json"
	if _, err := readBody(strings.NewReader("")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestRequestOptions_Parsing(t *testing.T) {
	t.Cleanup(func() { flagQueries, flagHeaders = nil, nil })

	flagQueries = []string{"page=2", "sort=name"}
	flagHeaders = []string{"X-Env: staging"}
	opts, err := requestOptions()
	if err != nil {
		t.Fatalf("requestOptions: %v", err)
	}
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}

	flagQueries = []string{"missing-separator"}
	if _, err := requestOptions(); err == nil {
		t.Fatal("expected error for malformed query flag")
	}
	flagQueries = nil

	flagHeaders = []string{"missing-separator"}
	if _, err := requestOptions(); err == nil {
		t.Fatal("expected error for malformed header flag")
	}
}

func TestPrintValue(t *testing.T) {
	var buf bytes.Buffer
	if err := printValue(&buf, "plain text"); err != nil {
		t.Fatalf("printValue: %v", err)
	}
	if got := buf.String(); got != "plain text\n" {
		t.Fatalf("string output: %q", got)
	}

	buf.Reset()
	if err := printValue(&buf, map[string]any{"a": 1}); err != nil {
		t.Fatalf("printValue: %v", err)
	}
	if !strings.Contains(buf.String(), `"a": 1`) {
		t.Fatalf("json output: %q", buf.String())
	}
}

func TestPrintResult_FailureExitsNonZero(t *testing.T) {
	var buf bytes.Buffer
	res := api.Wrap[any](nil, &api.Error{Status: 404, Message: "Not found"})
	err := printResult(&buf, res)
	if err == nil {
		t.Fatal("expected sentinel error for failed envelope")
	}
	out := buf.String()
	if !strings.Contains(out, `"success": false`) || !strings.Contains(out, "Error 404: Not found") {
		t.Fatalf("envelope output: %q", out)
	}
}
