package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. DASHKIT_BASE_URL.
const EnvPrefix = "DASHKIT"

// Settings is the process-wide client configuration, read once at startup
// and injected into api.Client construction.
type Settings struct {
	// BaseURL is the backend the client talks to.
	BaseURL string `mapstructure:"base_url" json:"base_url"`

	// Timeout bounds each call.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// UserAgent is sent when the request does not set its own.
	UserAgent string `mapstructure:"user_agent" json:"user_agent,omitempty"`
}

// Defaults mirrors the packaged fallbacks: a local API prefix and 10s.
func Defaults() Settings {
	return Settings{
		BaseURL: "http://localhost:8080/api",
		Timeout: 10 * time.Second,
	}
}

// FromEnv builds Settings from defaults plus DASHKIT_* environment
// variables. It never fails; unset values keep their defaults.
func FromEnv() Settings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("user_agent", def.UserAgent)

	return Settings{
		BaseURL:   v.GetString("base_url"),
		Timeout:   v.GetDuration("timeout"),
		UserAgent: v.GetString("user_agent"),
	}
}
