// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/auth"
	"parsight/internal/gate"
	"parsight/internal/listing"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
	"parsight/internal/records"
	"parsight/internal/session"
	"parsight/internal/stubapi"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestForcedLogoutTearsDownSession wires the full stack and verifies the 401
reaction: store cleared, session unauthenticated, view forced to login.
*/
func TestForcedLogoutTearsDownSession(t *testing.T) {
	// Tokens expire immediately so the first authenticated call 401s.
	server := httptest.NewServer(stubapi.New(testLog, stubapi.WithTokenTTL(-time.Minute)).Router())
	defer server.Close()

	creds := credstore.NewMemStore()
	sess := session.New(creds, testLog)
	nav := gate.NewNavigator(sess, testLog)
	client, err := transport.New(server.URL, creds, forcedLogoutNavigator{nav: nav, sess: sess}, testLog)
	require.NoError(t, err)

	token, err := auth.Login(context.Background(), client, "operator", "operator-secret")
	require.NoError(t, err)
	require.NoError(t, sess.Login(token))
	require.True(t, sess.Authenticated())

	_, err = records.NewFetcher(client)(context.Background(), listing.Query{Page: 1, PageSize: 10})
	require.Error(t, err)

	// 1. Credential gone
	_, stored := creds.Token()
	assert.False(t, stored)

	// 2. Session torn down, not just the store
	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.Identity())

	// 3. The navigator landed on the login view
	assert.Equal(t, gate.LoginPath, nav.Current())

	// 4. Protected views now redirect to login through the gate
	decision := nav.Navigate(gate.UploadPath)
	assert.False(t, decision.Allow)
	assert.Equal(t, gate.LoginPath, decision.RedirectTo)
}
