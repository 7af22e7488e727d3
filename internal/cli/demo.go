// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"parsight/internal/gate"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
	"parsight/internal/session"
	"parsight/internal/stubapi"
)

func newDemoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the shell against a built-in stub backend",
		Long: `Run the shell against a built-in stub backend on a loopback port.

The stub is seeded with an "admin" account (password "admin-secret"), an
approved "operator" ("operator-secret"), a pending "newjoiner"
("joiner-secret"), and a small label book. Nothing persists across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listener, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}

			server := &http.Server{
				Handler:           stubapi.New(app.Log).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
					app.Log.Error("stub_backend_stopped", slog.Any("error", serveErr))
				}
			}()
			defer server.Close()

			// Rebuild the stack around an in-memory credential store so a
			// demo run never touches the real stored session.
			baseURL := "http://" + listener.Addr().String()
			app.Creds = credstore.NewMemStore()
			app.Session = session.New(app.Creds, app.Log)
			app.Nav = gate.NewNavigator(app.Session, app.Log)
			app.Client, err = transport.New(baseURL, app.Creds,
				forcedLogoutNavigator{nav: app.Nav, sess: app.Session}, app.Log)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Stub backend listening on %s\n", baseURL)
			return runShell(cmd.Context(), app)
		},
	}
}
