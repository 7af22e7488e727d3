// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"parsight/internal/auth"
	"parsight/internal/gate"
	"parsight/internal/users"
)

// promptPassword reads a password without echo, falling back to a plain
// line read when stdin is not a terminal (piped input in scripts).
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var password string
		_, err := fmt.Scanln(&password)
		return password, err
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func newLoginCommand(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Exchange credentials for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				if password, err = promptPassword("Password: "); err != nil {
					return err
				}
			}

			token, err := auth.Login(cmd.Context(), app.Client, username, password)
			if err != nil {
				return err
			}
			if err := app.Session.Login(token); err != nil {
				return err
			}

			app.Nav.Navigate(gate.UploadPath)
			identity := app.Session.Identity()
			fmt.Fprintf(app.Out, "Logged in as %s (%s, %s)\n",
				identity.Username(), identity.Role, identity.Status)
			if !app.Session.IsApproved() {
				fmt.Fprintln(app.Out, "Your account is awaiting approval; most views are locked until then.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout()
			app.Nav.ForceNavigate(gate.LoginPath)
			fmt.Fprintln(app.Out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Session.Authenticated() {
				fmt.Fprintln(app.Out, "Not logged in.")
				return nil
			}

			identity := app.Session.Identity()
			fmt.Fprintf(app.Out, "Username: %s\n", identity.Username())
			fmt.Fprintf(app.Out, "Email:    %s\n", identity.Email)
			fmt.Fprintf(app.Out, "Role:     %s\n", identity.Role)
			fmt.Fprintf(app.Out, "Status:   %s\n", identity.Status)
			if identity.ExpiresAt != nil {
				fmt.Fprintf(app.Out, "Expires:  %s\n", identity.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newRegisterCommand(app *App) *cobra.Command {
	var input auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Request a new account",
		Long: `Request a new account. Accounts start in the pending status and must be
approved by an administrator before label views become available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				password, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				confirm, err := promptPassword("Confirm password: ")
				if err != nil {
					return err
				}
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
				input.Password = password
			}

			if err := auth.Register(cmd.Context(), app.Client, input); err != nil {
				return err
			}

			app.Nav.Navigate(gate.ConfirmationPath)
			fmt.Fprintln(app.Out, "Registration submitted. You can log in once an administrator approves the account.")
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "account username")
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAccountCommand(app *App) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage the logged-in account",
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enter(gate.DashboardPath); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deletion is permanent; re-run with --yes to confirm")
			}

			if err := users.NewClient(app.Client).DeleteSelf(cmd.Context()); err != nil {
				return err
			}

			app.Session.Logout()
			app.Nav.ForceNavigate(gate.LoginPath)
			fmt.Fprintln(app.Out, "Account deleted.")
			return nil
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	account.AddCommand(del)
	return account
}
