package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	s := FromEnv()
	if s.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected default base url: %q", s.BaseURL)
	}
	if s.Timeout != 10*time.Second {
		t.Fatalf("unexpected default timeout: %v", s.Timeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DASHKIT_BASE_URL", "https://api.example.com/v2")
	t.Setenv("DASHKIT_TIMEOUT", "3s")

	s := FromEnv()
	if s.BaseURL != "https://api.example.com/v2" {
		t.Fatalf("env base url not applied: %q", s.BaseURL)
	}
	if s.Timeout != 3*time.Second {
		t.Fatalf("env timeout not applied: %v", s.Timeout)
	}
}
