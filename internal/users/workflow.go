// Copyright (c) 2026 Parsight. All rights reserved.

package users

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"parsight/internal/listing"
)

// ActionKind enumerates the confirmation-gated admin mutations.
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
	ActionDelete  ActionKind = "delete"
	ActionCreate  ActionKind = "create"
)

// Phase is where a pending action sits in its lifecycle.
type Phase int

const (
	// PhaseIdle means no action is pending.
	PhaseIdle Phase = iota
	// PhaseRequested means an action awaits confirmation or cancellation.
	PhaseRequested
	// PhaseApplying means the mutating call is in flight.
	PhaseApplying
)

var (
	// ErrActionPending is returned when a new action is requested while
	// another is awaiting confirmation or applying.
	ErrActionPending = errors.New("users: an action is already pending")

	// ErrNoPendingAction is returned by Confirm or Cancel without a
	// requested action.
	ErrNoPendingAction = errors.New("users: no action pending")
)

// Workflow is the confirmation-gated mutation state machine over the admin
// user listing.
//
// # Lifecycle
//
//	Idle -> Requested -> Confirmed (Applying) -> Idle
//	              \-> Cancelled -> Idle
//
// A confirmed action issues exactly one mutating call. On success the
// listing is refreshed with one fetch (never patched locally) so the view
// matches server state. On failure the error is kept for display, the
// listing stays intact, and the machine returns to Idle; retries are manual.
type Workflow struct {
	mu     sync.Mutex
	client *Client
	ctl    *listing.Controller[UserRecord]
	log    *slog.Logger

	phase   Phase
	kind    ActionKind
	target  UserRecord
	input   CreateInput
	lastErr error
}

// NewWorkflow wires the mutation workflow to its listing controller.
func NewWorkflow(client *Client, ctl *listing.Controller[UserRecord], log *slog.Logger) *Workflow {
	return &Workflow{
		client: client,
		ctl:    ctl,
		log:    log,
	}
}

// Request stages an approve, reject, or delete against a target row.
func (w *Workflow) Request(kind ActionKind, target UserRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseIdle {
		return ErrActionPending
	}

	w.phase = PhaseRequested
	w.kind = kind
	w.target = target
	w.lastErr = nil
	return nil
}

// RequestCreate stages the creation of a new account.
func (w *Workflow) RequestCreate(input CreateInput) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseIdle {
		return ErrActionPending
	}

	w.phase = PhaseRequested
	w.kind = ActionCreate
	w.target = UserRecord{}
	w.input = input
	w.lastErr = nil
	return nil
}

// Cancel destroys the pending action without side effects.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseRequested {
		return ErrNoPendingAction
	}
	w.reset()
	return nil
}

/*
Confirm applies the pending action.

Description: Issues exactly one mutating call for the staged kind. Success
triggers exactly one listing refresh. Failure records the error, leaves the
listing untouched, and returns the machine to Idle.

Parameters:
  - ctx: context.Context

Returns:
  - error: The mutation or refresh failure, nil on full success
*/
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.phase != PhaseRequested {
		w.mu.Unlock()
		return ErrNoPendingAction
	}
	w.phase = PhaseApplying
	kind, target, input := w.kind, w.target, w.input
	w.mu.Unlock()

	err := w.apply(ctx, kind, target, input)

	w.mu.Lock()
	w.reset()
	if err != nil {
		w.lastErr = err
		w.mu.Unlock()
		w.log.Warn("admin_action_failed",
			slog.String("kind", string(kind)),
			slog.Int64("target_id", target.ID),
			slog.Any("error", err),
		)
		return err
	}
	w.mu.Unlock()

	w.log.Info("admin_action_applied",
		slog.String("kind", string(kind)),
		slog.Int64("target_id", target.ID),
	)

	// Re-fetch rather than patch locally: the server owns the truth.
	return w.ctl.Load(ctx)
}

func (w *Workflow) apply(ctx context.Context, kind ActionKind, target UserRecord, input CreateInput) error {
	switch kind {
	case ActionApprove:
		return w.client.Approve(ctx, target.ID)
	case ActionReject:
		return w.client.Reject(ctx, target.ID)
	case ActionDelete:
		return w.client.Delete(ctx, target.ID)
	case ActionCreate:
		_, err := w.client.Create(ctx, input)
		return err
	default:
		return errors.New("users: unknown action kind")
	}
}

// reset returns the machine to Idle. Callers hold the lock.
func (w *Workflow) reset() {
	w.phase = PhaseIdle
	w.kind = ""
	w.target = UserRecord{}
	w.input = CreateInput{}
}

// # Observers

// Phase returns the current lifecycle phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Pending returns the staged action, or false when Idle.
func (w *Workflow) Pending() (ActionKind, UserRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseRequested {
		return "", UserRecord{}, false
	}
	return w.kind, w.target, true
}

// LastError returns the failure of the most recent confirmed action, or nil.
func (w *Workflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
