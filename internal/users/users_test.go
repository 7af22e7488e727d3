// Copyright (c) 2026 Parsight. All rights reserved.

package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/listing"
	"parsight/internal/platform/apperr"
	"parsight/internal/platform/credstore"
	"parsight/internal/platform/transport"
	"parsight/internal/users"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type noopNav struct{}

func (noopNav) ForceNavigate(string) {}

// directory serves a fixed user array and records mutation calls.
type directory struct {
	users    []users.UserRecord
	requests []string
	fail     map[string]int // method+path -> status to return
}

func (d *directory) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		d.requests = append(d.requests, key)

		if status, ok := d.fail[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"induced failure"}`))
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(d.users)
		case r.Method == http.MethodPost && r.URL.Path == "/users/":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(users.UserRecord{ID: 99})
		case r.Method == http.MethodDelete, r.Method == http.MethodPut:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func count(requests []string, key string) int {
	n := 0
	for _, r := range requests {
		if r == key {
			n++
		}
	}
	return n
}

func newUsersClient(t *testing.T, d *directory) (*users.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(d.handler())
	t.Cleanup(server.Close)

	api, err := transport.New(server.URL, credstore.NewMemStore(), noopNav{}, testLog)
	require.NoError(t, err)
	return users.NewClient(api), server
}

func sampleUsers() []users.UserRecord {
	return []users.UserRecord{
		{ID: 1, Username: "alice", Email: "alice@example.com", Role: "admin", Status: "approved"},
		{ID: 2, Username: "bob", Email: "bob@example.com", Role: "user", Status: "pending"},
		{ID: 3, Username: "carol", Email: "carol@example.com", Role: "user", Status: "pending"},
		{ID: 4, Username: "dave", Email: "dave@example.com", Role: "user", Status: "approved"},
		{ID: 5, Username: "erin", Email: "erin@example.com", Role: "user", Status: "rejected"},
		{ID: 6, Username: "frank", Email: "frank@example.com", Role: "user", Status: "pending"},
		{ID: 7, Username: "grace", Email: "grace@example.com", Role: "user", Status: "approved"},
	}
}

/*
TestNewFetcher_ClientSidePaging slices the flat user array into pages.
*/
func TestNewFetcher_ClientSidePaging(t *testing.T) {
	client, _ := newUsersClient(t, &directory{users: sampleUsers()})
	fetch := users.NewFetcher(client)

	// 1. Page 2 of 5 holds the remaining two rows, total counts all
	res, err := fetch(context.Background(), listing.Query{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, "frank", res.Items[0].Username)

	// 2. A page past the end is empty, not an error
	res, err = fetch(context.Background(), listing.Query{Page: 9, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 7, res.Total)
}

/*
TestNewFetcher_Filters narrows by column before paging.
*/
func TestNewFetcher_Filters(t *testing.T) {
	client, _ := newUsersClient(t, &directory{users: sampleUsers()})
	fetch := users.NewFetcher(client)

	res, err := fetch(context.Background(), listing.Query{
		Page:     1,
		PageSize: 10,
		Filters:  map[string]string{"status": "Pending"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	for _, u := range res.Items {
		assert.EqualValues(t, "pending", u.Status)
	}

	// Unknown filter fields match nothing rather than everything.
	res, err = fetch(context.Background(), listing.Query{
		Page:     1,
		PageSize: 10,
		Filters:  map[string]string{"shoe_size": "42"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

/*
TestCreateInput_Validate rejects bad admin-provisioning input locally.
*/
func TestCreateInput_Validate(t *testing.T) {
	valid := users.CreateInput{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "longenough",
		Role:     "user",
		Status:   "pending",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*users.CreateInput)
	}{
		{"short_username", func(in *users.CreateInput) { in.Username = "ab" }},
		{"bad_email", func(in *users.CreateInput) { in.Email = "nope" }},
		{"short_password", func(in *users.CreateInput) { in.Password = "short" }},
		{"bad_role", func(in *users.CreateInput) { in.Role = "root" }},
		{"bad_status", func(in *users.CreateInput) { in.Status = "frozen" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}
