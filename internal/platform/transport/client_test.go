// Copyright (c) 2026 Parsight. All rights reserved.

package transport_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/platform/apperr"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// recordingNav captures forced navigations.
type recordingNav struct {
	forced []string
}

func (n *recordingNav) ForceNavigate(path string) {
	n.forced = append(n.forced, path)
}

func newClient(t *testing.T, serverURL string, creds credstore.Store, nav transport.Navigator) *transport.Client {
	t.Helper()
	c, err := transport.New(serverURL, creds, nav, testLog)
	require.NoError(t, err)
	return c
}

/*
TestNew_RejectsBadBaseURL requires an absolute base URL.
*/
func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, bad := range []string{"", "not-a-url", "/relative/only"} {
		_, err := transport.New(bad, credstore.NewMemStore(), &recordingNav{}, testLog)
		assert.Error(t, err, "base URL %q", bad)
	}
}

/*
TestDo_AttachesBearerAndRequestID verifies outbound header decoration.
*/
func TestDo_AttachesBearerAndRequestID(t *testing.T) {
	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save("stored-token"))

	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, creds, &recordingNav{})

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(context.Background(), "/ping", nil, &out))

	assert.Equal(t, "Bearer stored-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out.OK)
}

/*
TestDo_NoTokenNoAuthHeader leaves the Authorization header off entirely.
*/
func TestDo_NoTokenNoAuthHeader(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newClient(t, server.URL, credstore.NewMemStore(), &recordingNav{})
	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
	assert.False(t, sawAuth)
}

/*
TestDo_UnauthorizedForcesLogout is the central 401 scenario: store cleared,
navigation forced to login, and the original call still fails for its caller.
*/
func TestDo_UnauthorizedForcesLogout(t *testing.T) {
	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save("stale-token"))
	nav := &recordingNav{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, creds, nav)
	err := client.Get(context.Background(), "/users/", nil, nil)

	// 1. Caller sees the failure
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Equal(t, "Could not validate credentials", apperr.As(err).Message)

	// 2. Credential is gone
	_, ok := creds.Token()
	assert.False(t, ok)

	// 3. Client was sent to the login view
	assert.Equal(t, []string{"/login"}, nav.forced)
}

/*
TestDo_UnauthorizedOnRetryDoesNotLoop suppresses the logout reaction for a
request already marked as a retry.
*/
func TestDo_UnauthorizedOnRetryDoesNotLoop(t *testing.T) {
	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save("token"))
	nav := &recordingNav{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newClient(t, server.URL, creds, nav)
	err := client.Do(context.Background(), transport.Request{
		Method: http.MethodGet,
		Path:   "/users/",
		Retry:  true,
	}, nil)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// No forced navigation, credential untouched.
	assert.Empty(t, nav.forced)
	_, ok := creds.Token()
	assert.True(t, ok)
}

/*
TestDo_ForbiddenPassesThrough leaves the session alone on a 403.
*/
func TestDo_ForbiddenPassesThrough(t *testing.T) {
	creds := credstore.NewMemStore()
	require.NoError(t, creds.Save("valid-but-unprivileged"))
	nav := &recordingNav{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Not enough permissions"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, creds, nav)
	err := client.Get(context.Background(), "/users/", nil, nil)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.Equal(t, "Not enough permissions", apperr.As(err).Message)

	// Session material untouched: no navigation, credential still there.
	assert.Empty(t, nav.forced)
	_, ok := creds.Token()
	assert.True(t, ok)
}

/*
TestDo_UpstreamError maps other failures onto UPSTREAM_ERROR with the status.
*/
func TestDo_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(t, server.URL, credstore.NewMemStore(), &recordingNav{})
	err := client.Get(context.Background(), "/upload-records/", nil, nil)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeUpstream, ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}

/*
TestDo_NetworkError maps unreachable backends onto NETWORK_ERROR.
*/
func TestDo_NetworkError(t *testing.T) {
	// Grab a port that is guaranteed closed by the time we dial it.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	client := newClient(t, deadURL, credstore.NewMemStore(), &recordingNav{})
	err := client.Get(context.Background(), "/ping", nil, nil)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNetwork))
}

/*
TestDo_FormEncoding sends the token endpoint's urlencoded body.
*/
func TestDo_FormEncoding(t *testing.T) {
	var gotContentType, gotUsername string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotUsername = r.PostFormValue("username")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, credstore.NewMemStore(), &recordingNav{})

	var out struct {
		AccessToken string `json:"access_token"`
	}
	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	require.NoError(t, client.PostForm(context.Background(), "/token", form, &out))

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "alice", gotUsername)
	assert.Equal(t, "abc", out.AccessToken)
}

/*
TestDo_QueryParameters encodes pagination and filter parameters.
*/
func TestDo_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, credstore.NewMemStore(), &recordingNav{})

	var out struct{}
	query := url.Values{"page": {"2"}, "size": {"10"}, "city": {"Mumbai"}}
	require.NoError(t, client.Get(context.Background(), "/upload-records/", query, &out))

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("size"))
	assert.Equal(t, "Mumbai", gotQuery.Get("city"))
}
