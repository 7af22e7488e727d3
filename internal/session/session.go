// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package session implements the process-wide authorization state.

It derives identity from the credential store at boot and exposes the only
two legal transitions: Login and Logout. Roles (admin, approved) are derived
views over the decoded claims, never stored separately.

# Architecture

The session is an explicit, dependency-injected object owned by the
application root and handed to the access gate and request pipeline. Nothing
reaches it through a global. Side effects are confined to the credential
store and in-memory state; no network calls originate here.
*/
package session

import (
	"log/slog"
	"sync"
	"time"

	"parsight/internal/platform/credstore"
	"parsight/internal/platform/sec"
)

// Session holds the authorization state derived from the stored credential.
//
// It is created once at application start and lives for the process
// lifetime. All mutation goes through [Session.Login] and [Session.Logout]
// (plus the request pipeline's forced clear, which operates on the shared
// credential store followed by a logout).
type Session struct {
	mu    sync.RWMutex
	creds credstore.Store
	now   func() time.Time
	log   *slog.Logger

	authenticated bool
	identity      *sec.IdentityClaims
}

// Option customizes session construction.
type Option func(*Session)

// WithClock overrides the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

/*
New constructs the session by reading the credential store.

Description: If a token exists it is decoded and checked for expiry. A
malformed or expired token is cleared from the store and the session starts
unauthenticated; a healthy token yields an authenticated session with its
derived identity.

Parameters:
  - creds: credstore.Store
  - log: *slog.Logger
  - opts: ...Option

Returns:
  - *Session: Initialized session state
*/
func New(creds credstore.Store, log *slog.Logger, opts ...Option) *Session {
	s := &Session{
		creds: creds,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}

	token, ok := creds.Token()
	if !ok {
		return s
	}

	claims, err := sec.Decode(token)
	if err != nil {
		s.log.Warn("session_boot_token_invalid", slog.Any("error", err))
		s.clearStore()
		return s
	}

	if sec.Expired(claims, s.now()) {
		s.log.Info("session_boot_token_expired", slog.String("sub", claims.Username()))
		s.clearStore()
		return s
	}

	s.authenticated = true
	s.identity = claims
	return s
}

// # Transitions

/*
Login stores the freshly issued token and derives identity from it.

Description: Callers must only pass tokens just issued by the backend, so a
decode failure here is a caller contract violation and is returned as an
error (the token remains stored, matching the storage-first transition
order). No expiry check is performed: a freshly issued token is assumed
valid.

Parameters:
  - token: string

Returns:
  - error: apperr.Decode on a malformed token
*/
func (s *Session) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.creds.Save(token); err != nil {
		return err
	}

	claims, err := sec.Decode(token)
	if err != nil {
		return err
	}

	s.authenticated = true
	s.identity = claims
	s.log.Info("session_login", slog.String("sub", claims.Username()), slog.String("role", string(claims.Role)))
	return nil
}

// Logout clears the stored credential and resets the session to
// unauthenticated.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearStore()
	s.authenticated = false
	s.identity = nil
	s.log.Info("session_logout")
}

// # Derived State

// Authenticated reports whether a healthy credential backed this session at
// boot or login.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Identity returns the decoded claim set, or nil when unauthenticated.
func (s *Session) Identity() *sec.IdentityClaims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// IsAdmin reports whether the current identity carries the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.IsAdmin()
}

// IsApproved reports whether the current identity has cleared review.
func (s *Session) IsApproved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.IsApproved()
}

// clearStore drops the stored credential, logging rather than failing when
// the store misbehaves. Callers hold the write lock or run during New.
func (s *Session) clearStore() {
	if err := s.creds.Clear(); err != nil {
		s.log.Error("session_credential_clear_failed", slog.Any("error", err))
	}
}
