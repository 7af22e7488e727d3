// Copyright (c) 2026 Parsight. All rights reserved.

package users_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/listing"
	"parsight/internal/users"
)

func newWorkflow(t *testing.T, d *directory) (*users.Workflow, *listing.Controller[users.UserRecord]) {
	t.Helper()
	client, _ := newUsersClient(t, d)
	ctl := listing.NewController(users.NewFetcher(client), testLog)
	return users.NewWorkflow(client, ctl, testLog), ctl
}

/*
TestWorkflow_ConfirmApprove issues exactly one mutation and one refresh.
*/
func TestWorkflow_ConfirmApprove(t *testing.T) {
	dir := &directory{users: sampleUsers()}
	wf, ctl := newWorkflow(t, dir)
	require.NoError(t, ctl.Load(context.Background()))

	target := users.UserRecord{ID: 2, Username: "bob", Status: "pending"}

	// 1. Request stages the action without touching the backend
	require.NoError(t, wf.Request(users.ActionApprove, target))
	assert.Equal(t, users.PhaseRequested, wf.Phase())
	kind, pending, ok := wf.Pending()
	require.True(t, ok)
	assert.Equal(t, users.ActionApprove, kind)
	assert.Equal(t, int64(2), pending.ID)
	assert.Equal(t, 1, count(dir.requests, "GET /users/"))

	// 2. Confirm applies one PUT and one refresh fetch, then returns to Idle
	require.NoError(t, wf.Confirm(context.Background()))
	assert.Equal(t, users.PhaseIdle, wf.Phase())
	assert.NoError(t, wf.LastError())
	assert.Equal(t, 1, count(dir.requests, "PUT /users/approve/2"))
	assert.Equal(t, 2, count(dir.requests, "GET /users/"))
}

/*
TestWorkflow_ConfirmFailure keeps the listing intact and records the error.
*/
func TestWorkflow_ConfirmFailure(t *testing.T) {
	dir := &directory{
		users: sampleUsers(),
		fail:  map[string]int{"PUT /users/reject/3": http.StatusInternalServerError},
	}
	wf, ctl := newWorkflow(t, dir)
	require.NoError(t, ctl.Load(context.Background()))
	heldTotal := ctl.Total()

	require.NoError(t, wf.Request(users.ActionReject, users.UserRecord{ID: 3}))
	err := wf.Confirm(context.Background())
	require.Error(t, err)

	// 1. Machine returns to Idle with the failure held for display
	assert.Equal(t, users.PhaseIdle, wf.Phase())
	assert.Equal(t, err, wf.LastError())

	// 2. No refresh happened and the listing kept its rows
	assert.Equal(t, 1, count(dir.requests, "GET /users/"))
	assert.Equal(t, heldTotal, ctl.Total())
	assert.NotEmpty(t, ctl.Items())
}

/*
TestWorkflow_Cancel discards the staged action without side effects.
*/
func TestWorkflow_Cancel(t *testing.T) {
	dir := &directory{users: sampleUsers()}
	wf, _ := newWorkflow(t, dir)

	require.NoError(t, wf.Request(users.ActionDelete, users.UserRecord{ID: 5}))
	require.NoError(t, wf.Cancel())

	assert.Equal(t, users.PhaseIdle, wf.Phase())
	_, _, ok := wf.Pending()
	assert.False(t, ok)
	assert.Empty(t, dir.requests)

	// Cancelling again has nothing to cancel.
	assert.ErrorIs(t, wf.Cancel(), users.ErrNoPendingAction)
}

/*
TestWorkflow_SinglePendingAction rejects overlapping requests.
*/
func TestWorkflow_SinglePendingAction(t *testing.T) {
	wf, _ := newWorkflow(t, &directory{users: sampleUsers()})

	require.NoError(t, wf.Request(users.ActionApprove, users.UserRecord{ID: 2}))

	assert.ErrorIs(t, wf.Request(users.ActionDelete, users.UserRecord{ID: 3}), users.ErrActionPending)
	assert.ErrorIs(t, wf.RequestCreate(users.CreateInput{}), users.ErrActionPending)

	// Confirm without a staged action is likewise refused.
	require.NoError(t, wf.Cancel())
	assert.ErrorIs(t, wf.Confirm(context.Background()), users.ErrNoPendingAction)
}

/*
TestWorkflow_ConfirmCreate posts the staged input then refreshes.
*/
func TestWorkflow_ConfirmCreate(t *testing.T) {
	dir := &directory{users: sampleUsers()}
	wf, ctl := newWorkflow(t, dir)
	require.NoError(t, ctl.Load(context.Background()))

	input := users.CreateInput{
		Username: "helen",
		Email:    "helen@example.com",
		Password: "longenough",
		Role:     "user",
		Status:   "approved",
	}
	require.NoError(t, wf.RequestCreate(input))
	require.NoError(t, wf.Confirm(context.Background()))

	assert.Equal(t, 1, count(dir.requests, "POST /users/"))
	assert.Equal(t, 2, count(dir.requests, "GET /users/"))
}
