// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"parsight/internal/gate"
	"parsight/internal/listing"
	"parsight/internal/users"
)

// userHeaders are the admin directory table columns, in row field order.
var userHeaders = []string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS"}

func newUsersCommand(app *App) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Administer accounts (admin only)",
	}

	usersCmd.AddCommand(
		newUsersListCommand(app),
		newUserActionCommand(app, users.ActionApprove, "approve <id>", "Approve a pending account"),
		newUserActionCommand(app, users.ActionReject, "reject <id>", "Reject a pending account"),
		newUserActionCommand(app, users.ActionDelete, "delete <id>", "Delete an account"),
		newUsersCreateCommand(app),
	)
	return usersCmd
}

func newUsersListCommand(app *App) *cobra.Command {
	var (
		page    int
		size    int
		filters []string
		search  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := app.userListing(cmd.Context(), page, size, filters, search)
			if err != nil {
				return err
			}

			renderListing(app.Out, userHeaders, ctl)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 0, "page size (5, 10, 20, or 50; defaults to the configured size)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "column filter as field=value (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "client-side search term")
	return cmd
}

// userListing enters the admin view and loads the account directory.
func (a *App) userListing(ctx context.Context, page, size int, filters []string, search string) (*listing.Controller[users.UserRecord], error) {
	if err := a.enter(gate.UsersPath); err != nil {
		return nil, err
	}

	parsed, err := parseFilters(filters)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = a.pageSizeDefault()
	}
	opts := []listing.Option{
		listing.WithPage(page),
		listing.WithPageSize(size),
		listing.WithSearch(search),
	}
	for field, value := range parsed {
		opts = append(opts, listing.WithFilter(field, value))
	}

	ctl := listing.NewController(users.NewFetcher(users.NewClient(a.Client)), a.Log, opts...)
	if err := ctl.Load(ctx); err != nil {
		return nil, err
	}
	return ctl, nil
}

// findUser locates the target row in the loaded directory so the
// confirmation prompt can describe it.
func findUser(ctl *listing.Controller[users.UserRecord], id int64) (users.UserRecord, error) {
	for _, u := range ctl.Items() {
		if u.ID == id {
			return u, nil
		}
	}
	return users.UserRecord{}, fmt.Errorf("user %d not found on the current page; adjust --page or --filter", id)
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(question string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newUserActionCommand(app *App, kind users.ActionKind, use, short string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}

			// Load the full directory so the target can be found on any page.
			ctl, err := app.userListing(cmd.Context(), 1, 50, nil, "")
			if err != nil {
				return err
			}
			target, err := findUser(ctl, id)
			if err != nil {
				return err
			}

			wf := users.NewWorkflow(users.NewClient(app.Client), ctl, app.Log)
			if err := wf.Request(kind, target); err != nil {
				return err
			}

			if !yes {
				ok, err := confirmPrompt(fmt.Sprintf("%s user %q (#%d)?", kind, target.Username, target.ID))
				if err != nil {
					return err
				}
				if !ok {
					_ = wf.Cancel()
					fmt.Fprintln(app.Out, "Cancelled.")
					return nil
				}
			}

			if err := wf.Confirm(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Done: %s user %q (#%d).\n", kind, target.Username, target.ID)
			renderListing(app.Out, userHeaders, ctl)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func newUsersCreateCommand(app *App) *cobra.Command {
	var (
		input users.CreateInput
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision an account directly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				password, err := promptPassword("Password for the new account: ")
				if err != nil {
					return err
				}
				input.Password = password
			}
			if err := input.Validate(); err != nil {
				return err
			}

			ctl, err := app.userListing(cmd.Context(), 1, 50, nil, "")
			if err != nil {
				return err
			}

			wf := users.NewWorkflow(users.NewClient(app.Client), ctl, app.Log)
			if err := wf.RequestCreate(input); err != nil {
				return err
			}

			if !yes {
				ok, err := confirmPrompt(fmt.Sprintf("Create %s account %q (%s)?", input.Role, input.Username, input.Status))
				if err != nil {
					return err
				}
				if !ok {
					_ = wf.Cancel()
					fmt.Fprintln(app.Out, "Cancelled.")
					return nil
				}
			}

			if err := wf.Confirm(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Created account %q.\n", input.Username)
			renderListing(app.Out, userHeaders, ctl)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "account username")
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&input.Role, "role", "user", "account role (admin or user)")
	cmd.Flags().StringVar(&input.Status, "status", "approved", "initial status (pending, approved, or rejected)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
