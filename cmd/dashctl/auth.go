package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PaulButtle/dashkit/session"
)

var (
	flagToken     string
	flagExpiresIn time.Duration
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored credential",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token for subsequent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagToken == "" {
			return errors.New("--token is required")
		}
		store, err := session.Open()
		if err != nil {
			return err
		}
		sess := &session.Session{Token: flagToken}
		if flagExpiresIn > 0 {
			exp := time.Now().Add(flagExpiresIn)
			sess.ExpiresAt = &exp
		}
		if err := store.Save(sess); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a credential is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.Open()
		if err != nil {
			return err
		}
		sess, err := store.Load()
		switch {
		case errors.Is(err, session.ErrNoSession):
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		case errors.Is(err, session.ErrExpired):
			fmt.Fprintln(cmd.OutOrStdout(), "Session expired.")
		case err != nil:
			return err
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in (since %s).\n", sess.CreatedAt.Format(time.RFC3339))
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.Open()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&flagToken, "token", "", "API token to store")
	authLoginCmd.Flags().DurationVar(&flagExpiresIn, "expires-in", 0, "Optional token lifetime")
	authCmd.AddCommand(authLoginCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
