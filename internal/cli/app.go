// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package cli implements the terminal surface of the Parsight client.

# Architecture

The command tree is thin: every command resolves its work through the App,
which owns the wired client stack (configuration, credential store, session,
navigator, request pipeline). Commands mirror the navigable views; access
control always flows through the gate rather than being re-checked ad hoc.
*/
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"parsight/internal/gate"
	"parsight/internal/platform/config"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
	"parsight/internal/session"
)

// App is the composition root shared by all commands.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Creds   credstore.Store
	Session *session.Session
	Nav     *gate.Navigator
	Client  *transport.Client

	// Out receives all user-facing output. Logs go to stderr.
	Out io.Writer
}

/*
Wire builds the full client stack from configuration.

Description: Loads configuration (defaults, then the YAML file, then
environment overrides), initializes structured logging, opens the credential
store, boots the session from any stored token, and constructs the request
pipeline pointed at the configured backend.

Parameters:
  - configPath: string (empty means the per-user default location)
  - debug: bool (forces debug logging regardless of configuration)

Returns:
  - *App: Ready application
  - error: Configuration loading or validation failure
*/
func Wire(configPath string, debug bool) (*App, error) {
	if configPath == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = defaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "parsight"))

	credPath := cfg.CredentialFile
	if credPath == "" {
		if credPath, err = credstore.DefaultPath(); err != nil {
			return nil, err
		}
	}
	creds := credstore.NewFileStore(credPath)

	sess := session.New(creds, log)
	nav := gate.NewNavigator(sess, log)

	client, err := transport.New(cfg.APIBaseURL, creds, forcedLogoutNavigator{nav: nav, sess: sess}, log,
		transport.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Creds:   creds,
		Session: sess,
		Nav:     nav,
		Client:  client,
		Out:     os.Stdout,
	}, nil
}

// forcedLogoutNavigator is the pipeline's navigation hook. A forced move is
// the terminal analogue of the browser redirect-and-reload on 401: the
// session is torn down before the view changes, so gate checks made after
// the reaction see an unauthenticated session.
type forcedLogoutNavigator struct {
	nav  *gate.Navigator
	sess *session.Session
}

func (f forcedLogoutNavigator) ForceNavigate(path string) {
	f.sess.Logout()
	f.nav.ForceNavigate(path)
}

// enter navigates to the view backing a command and reports why access was
// refused when the gate redirects elsewhere.
func (a *App) enter(path string) error {
	decision := a.Nav.Navigate(path)
	if decision.Allow {
		return nil
	}

	switch decision.RedirectTo {
	case gate.LoginPath:
		return fmt.Errorf("not logged in: run \"parsight login\" first")
	case gate.DashboardPath:
		return fmt.Errorf("account is awaiting approval; this view is not available yet")
	default:
		return fmt.Errorf("access denied, redirected to %s", decision.RedirectTo)
	}
}

// parseFilters splits repeated key=value flags into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected field=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}
