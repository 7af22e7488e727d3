// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"parsight/internal/auth"
	"parsight/internal/gate"
	"parsight/internal/listing"
	"parsight/internal/records"
	"parsight/internal/users"
)

func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Long: `Interactive session. Navigate between views with "open", page and filter
the active listing in place, and run admin actions with confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), app)
		},
	}
}

// shell holds the interactive state: one controller per listing view, built
// lazily on first entry, plus the admin workflow bound to the user listing.
type shell struct {
	app *App
	rl  *readline.Instance

	recordsCtl *listing.Controller[records.Record]
	usersCtl   *listing.Controller[users.UserRecord]
	workflow   *users.Workflow
}

func runShell(ctx context.Context, app *App) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt(app),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	s := &shell{app: app, rl: rl}
	fmt.Fprintln(app.Out, `Parsight shell. Type "help" for commands, "exit" to leave.`)

	for {
		rl.SetPrompt(shellPrompt(app))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := s.dispatch(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(app.Out, "error: %v\n", err)
		}
	}
}

func shellPrompt(app *App) string {
	who := "guest"
	if app.Session.Authenticated() {
		who = app.Session.Identity().Username()
	}
	return fmt.Sprintf("%s %s> ", who, app.Nav.Current())
}

func (s *shell) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		s.printHelp()
		return nil
	case "login":
		return s.login(ctx, args)
	case "logout":
		s.app.Session.Logout()
		s.app.Nav.ForceNavigate(gate.LoginPath)
		s.recordsCtl, s.usersCtl, s.workflow = nil, nil, nil
		return nil
	case "whoami":
		return s.whoami()
	case "views":
		for _, route := range gate.Routes() {
			fmt.Fprintf(s.app.Out, "  %-18s %s\n", route.Path, route.Label)
		}
		return nil
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <path>")
		}
		return s.open(ctx, args[0])
	case "ls":
		return s.render()
	case "next", "prev", "page", "size", "filter", "search":
		return s.mutateListing(ctx, command, args)
	case "approve", "reject", "delete":
		return s.stageAction(args, users.ActionKind(command))
	case "confirm":
		return s.confirmAction(ctx)
	case "cancel":
		return s.cancelAction()
	default:
		return fmt.Errorf("unknown command %q; try \"help\"", command)
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.app.Out, `Session:
  login <username>        authenticate and open the upload view
  logout                  drop the session
  whoami                  show the current identity
Navigation:
  views                   list navigable views
  open <path>             move to a view (access-gated)
Listing (on /upload or /dashboard/users):
  ls                      render the active listing
  next | prev | page <n>  move between pages
  size <n>                switch the page size (resets to page 1)
  filter <field>=<value>  set a server-side filter (resets to page 1)
  filter <field>          clear a filter
  search <term>           narrow the current page locally (empty to clear)
Administration (on /dashboard/users):
  approve|reject|delete <id>   stage an action, then confirm or cancel
  confirm | cancel             resolve the staged action
`)
}

func (s *shell) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <username>")
	}

	password, err := s.rl.ReadPassword("Password: ")
	if err != nil {
		return err
	}

	token, err := auth.Login(ctx, s.app.Client, args[0], string(password))
	if err != nil {
		return err
	}
	if err := s.app.Session.Login(token); err != nil {
		return err
	}

	return s.open(ctx, gate.UploadPath)
}

func (s *shell) whoami() error {
	if !s.app.Session.Authenticated() {
		fmt.Fprintln(s.app.Out, "Not logged in.")
		return nil
	}
	identity := s.app.Session.Identity()
	fmt.Fprintf(s.app.Out, "%s <%s> role=%s status=%s\n",
		identity.Username(), identity.Email, identity.Role, identity.Status)
	return nil
}

// open navigates and, when a listing view is entered, loads it.
func (s *shell) open(ctx context.Context, path string) error {
	decision := s.app.Nav.Navigate(path)
	if !decision.Allow {
		fmt.Fprintf(s.app.Out, "redirected to %s\n", decision.RedirectTo)
	}

	switch s.app.Nav.Current() {
	case gate.UploadPath:
		if s.recordsCtl == nil {
			s.recordsCtl = listing.NewController(records.NewFetcher(s.app.Client), s.app.Log,
				listing.WithPageSize(s.app.pageSizeDefault()))
		}
		if err := s.recordsCtl.Load(ctx); err != nil {
			return err
		}
	case gate.UsersPath:
		if s.usersCtl == nil {
			client := users.NewClient(s.app.Client)
			s.usersCtl = listing.NewController(users.NewFetcher(client), s.app.Log,
				listing.WithPageSize(s.app.pageSizeDefault()))
			s.workflow = users.NewWorkflow(client, s.usersCtl, s.app.Log)
		}
		if err := s.usersCtl.Load(ctx); err != nil {
			return err
		}
	default:
		return nil
	}
	return s.render()
}

// render draws the listing backing the current view.
func (s *shell) render() error {
	switch s.app.Nav.Current() {
	case gate.UploadPath:
		if s.recordsCtl == nil {
			return fmt.Errorf("nothing loaded yet; use \"open /upload\"")
		}
		renderListing(s.app.Out, recordHeaders, s.recordsCtl)
	case gate.UsersPath:
		if s.usersCtl == nil {
			return fmt.Errorf("nothing loaded yet; use \"open /dashboard/users\"")
		}
		renderListing(s.app.Out, userHeaders, s.usersCtl)
		if s.workflow != nil {
			if kind, target, ok := s.workflow.Pending(); ok {
				fmt.Fprintf(s.app.Out, "Pending: %s user %q (#%d). confirm or cancel?\n",
					kind, target.Username, target.ID)
			}
			if err := s.workflow.LastError(); err != nil {
				fmt.Fprintf(s.app.Out, "Last action failed: %v\n", err)
			}
		}
	default:
		fmt.Fprintf(s.app.Out, "view %s has no listing\n", s.app.Nav.Current())
	}
	return nil
}

// mutate applies one query mutation to whichever listing is active.
type mutator interface {
	SetPage(ctx context.Context, page int) error
	SetPageSize(ctx context.Context, size int) error
	SetFilter(ctx context.Context, field, value string) error
	SetSearch(term string)
	CurrentPage() int
}

// activeListing adapts the view's controller to the mutation set.
func (s *shell) activeListing() (mutator, error) {
	switch s.app.Nav.Current() {
	case gate.UploadPath:
		if s.recordsCtl == nil {
			return nil, fmt.Errorf("nothing loaded yet; use \"open /upload\"")
		}
		return listingMutator[records.Record]{s.recordsCtl}, nil
	case gate.UsersPath:
		if s.usersCtl == nil {
			return nil, fmt.Errorf("nothing loaded yet; use \"open /dashboard/users\"")
		}
		return listingMutator[users.UserRecord]{s.usersCtl}, nil
	default:
		return nil, fmt.Errorf("view %s has no listing", s.app.Nav.Current())
	}
}

type listingMutator[T listing.Row] struct {
	ctl *listing.Controller[T]
}

func (m listingMutator[T]) SetPage(ctx context.Context, page int) error { return m.ctl.SetPage(ctx, page) }
func (m listingMutator[T]) SetPageSize(ctx context.Context, size int) error {
	return m.ctl.SetPageSize(ctx, size)
}
func (m listingMutator[T]) SetFilter(ctx context.Context, field, value string) error {
	return m.ctl.SetFilter(ctx, field, value)
}
func (m listingMutator[T]) SetSearch(term string) { m.ctl.SetSearch(term) }
func (m listingMutator[T]) CurrentPage() int      { return m.ctl.Query().Page }

func (s *shell) mutateListing(ctx context.Context, command string, args []string) error {
	active, err := s.activeListing()
	if err != nil {
		return err
	}

	switch command {
	case "next":
		err = active.SetPage(ctx, active.CurrentPage()+1)
	case "prev":
		err = active.SetPage(ctx, active.CurrentPage()-1)
	case "page":
		if len(args) != 1 {
			return fmt.Errorf("usage: page <n>")
		}
		var n int
		if n, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		err = active.SetPage(ctx, n)
	case "size":
		if len(args) != 1 {
			return fmt.Errorf("usage: size <n>")
		}
		var n int
		if n, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid size %q", args[0])
		}
		err = active.SetPageSize(ctx, n)
	case "filter":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter <field>=<value> or filter <field>")
		}
		field, value, _ := strings.Cut(args[0], "=")
		err = active.SetFilter(ctx, field, value)
	case "search":
		active.SetSearch(strings.Join(args, " "))
	}
	if err != nil {
		return err
	}
	return s.render()
}

func (s *shell) stageAction(args []string, kind users.ActionKind) error {
	if s.app.Nav.Current() != gate.UsersPath || s.workflow == nil {
		return fmt.Errorf("admin actions need the user view; use \"open /dashboard/users\"")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <id>", kind)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user ID %q", args[0])
	}

	target, err := findUser(s.usersCtl, id)
	if err != nil {
		return err
	}
	if err := s.workflow.Request(kind, target); err != nil {
		return err
	}

	fmt.Fprintf(s.app.Out, "Staged: %s user %q (#%d). Type confirm or cancel.\n",
		kind, target.Username, target.ID)
	return nil
}

func (s *shell) confirmAction(ctx context.Context) error {
	if s.workflow == nil {
		return users.ErrNoPendingAction
	}
	if err := s.workflow.Confirm(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.app.Out, "Applied.")
	return s.render()
}

func (s *shell) cancelAction() error {
	if s.workflow == nil {
		return users.ErrNoPendingAction
	}
	if err := s.workflow.Cancel(); err != nil {
		return err
	}
	fmt.Fprintln(s.app.Out, "Cancelled.")
	return nil
}
