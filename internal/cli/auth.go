package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				err := huh.NewInput().
					Title("Password for " + username).
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Run()
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}
			return runLogin(cmd.Context(), rootOpts, cmd, username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "user name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runLogin(ctx context.Context, opts *RootOptions, cmd *cobra.Command, username, password string) error {
	env := opts.Env()
	tok, err := env.Client.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return userError(err)
	}
	env.Session.SetToken(tok.AccessToken)

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
	if !env.Session.Persistent() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the session could not be saved and ends with this process")
	}
	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.Env().Session.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rootOpts.Env().Client.CurrentUser(cmd.Context())
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, user.Username)
			if user.FullName != "" {
				fmt.Fprintln(out, user.FullName)
			}
			if user.Email != "" {
				fmt.Fprintln(out, user.Email)
			}
			return nil
		},
	}
}
