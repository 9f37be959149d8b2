package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestInfo_String(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name:     "clean state",
			info:     Info{GitVersion: "v1.0.0", GitTreeState: "clean"},
			expected: "v1.0.0",
		},
		{
			name:     "dirty state",
			info:     Info{GitVersion: "v1.0.0", GitTreeState: "dirty"},
			expected: "v1.0.0-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.expected {
				t.Errorf("Info.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInfo_ToJSON(t *testing.T) {
	out, err := Get().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded Info
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", decoded.GoVersion, runtime.Version())
	}
}

func TestInfo_Text(t *testing.T) {
	out := Get().Text()
	for _, want := range []string{"gitVersion:", "goVersion:", "platform:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Text() missing %q:\n%s", want, out)
		}
	}
}
