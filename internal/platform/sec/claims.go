// Copyright (c) 2026 Parsight. All rights reserved.

// Package sec implements the session decoder: parsing a bearer token into
// its identity claim set.
//
// # Architecture
//
// The client never verifies token signatures. The backend is the sole
// verifier; this side only extracts the claims it was handed so the session
// layer can derive roles and expiry. Decoding is data parsing only and never
// evaluates anything embedded in the token.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parsight/internal/platform/apperr"
)

// # Roles & Statuses

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted access, including the user administration view
	RoleAdmin UserRole = "admin"

	// Default role for standard registered accounts
	RoleUser UserRole = "user"
)

// AccountStatus represents where an account sits in the approval lifecycle.
type AccountStatus string

const (
	// Registered but awaiting administrator review
	StatusPending AccountStatus = "pending"

	// Cleared for the approval-gated views
	StatusApproved AccountStatus = "approved"

	// Terminal state; only reachable mutation is deletion
	StatusRejected AccountStatus = "rejected"
)

// # Identity Claims

// IdentityClaims is the claim set carried by a PARS bearer token.
//
// The claim names are a bit-exact contract with the backend: sub (username),
// email, role, status, exp (seconds since epoch).
type IdentityClaims struct {
	jwt.RegisteredClaims

	Email  string        `json:"email"`
	Role   UserRole      `json:"role"`
	Status AccountStatus `json:"status"`
}

// Username returns the subject claim, which the backend populates with the
// account's username.
func (c *IdentityClaims) Username() string { return c.Subject }

// IsAdmin reports whether the identity carries the admin role.
func (c *IdentityClaims) IsAdmin() bool { return c.Role == RoleAdmin }

// IsApproved reports whether the account has cleared administrator review.
func (c *IdentityClaims) IsApproved() bool { return c.Status == StatusApproved }

// # Decoding

/*
Decode parses a bearer token string into its [IdentityClaims].

Description: The token is split and base64-decoded without signature
verification, mirroring what a browser client does with an opaque credential.
Tokens missing the required sub or exp claims are rejected.

Parameters:
  - token: string

Returns:
  - *IdentityClaims: Decoded claim set
  - error: apperr.Decode for malformed or claim-incomplete tokens
*/
func Decode(token string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, apperr.Decode(err)
	}

	// Subject and expiry are mandatory; a token without them cannot drive
	// session state.
	if claims.Subject == "" {
		return nil, apperr.Decode(errors.New("sec: token missing sub claim"))
	}
	if claims.ExpiresAt == nil {
		return nil, apperr.Decode(errors.New("sec: token missing exp claim"))
	}

	return claims, nil
}

// Expired reports whether the claim set's expiry has passed at the given
// instant. A token is valid only while exp (in seconds) converted to
// milliseconds is strictly greater than now.
func Expired(claims *IdentityClaims, now time.Time) bool {
	return claims.ExpiresAt.Time.UnixMilli() <= now.UnixMilli()
}
