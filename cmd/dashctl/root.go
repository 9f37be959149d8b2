package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PaulButtle/dashkit/api"
	"github.com/PaulButtle/dashkit/config"
	"github.com/PaulButtle/dashkit/session"
)

var (
	flagBaseURL string
	flagTimeout time.Duration
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "dashctl — talk to a dashkit backend",
	Long:          "A small client for dashkit-compatible APIs: issue requests, manage the stored credential, inspect responses.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend base URL (default from DASHKIT_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-call timeout (default from DASHKIT_TIMEOUT, else 10s)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
}

// newClient builds the api client from environment settings, flag overrides
// and the persisted session credential.
func newClient() (*api.Client, error) {
	settings := config.FromEnv()
	if flagBaseURL != "" {
		settings.BaseURL = flagBaseURL
	}
	if flagTimeout > 0 {
		settings.Timeout = flagTimeout
	}

	opts := []api.Option{
		api.WithBaseURL(settings.BaseURL),
		api.WithTimeout(settings.Timeout),
	}
	if settings.UserAgent != "" {
		opts = append(opts, api.WithUserAgent(settings.UserAgent))
	}
	store, err := session.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: session store unavailable, requests will be unauthenticated: %v\n", err)
	} else {
		opts = append(opts, api.WithTokenSource(store))
	}
	return api.New(opts...)
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}
