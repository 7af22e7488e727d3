// Copyright (c) 2026 Parsight. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsight/internal/platform/apperr"
	"parsight/internal/platform/sec"
)

// signToken builds a signed token from raw claims. The signing key is
// irrelevant to the decoder, which never verifies signatures.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

/*
TestDecode_ValidToken verifies the full claim contract: sub, email, role,
status, exp.
*/
func TestDecode_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	token := signToken(t, jwt.MapClaims{
		"sub":    "alice",
		"email":  "alice@example.com",
		"role":   "user",
		"status": "approved",
		"exp":    exp.Unix(),
	})

	claims, err := sec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, sec.RoleUser, claims.Role)
	assert.Equal(t, sec.StatusApproved, claims.Status)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	assert.False(t, claims.IsAdmin())
	assert.True(t, claims.IsApproved())
}

/*
TestDecode_Failures covers malformed tokens and missing required claims.
*/
func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"two_segments", "aGVhZGVy.cGF5bG9hZA"},
		{"missing_sub", signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"missing_exp", signToken(t, jwt.MapClaims{"sub": "alice"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.Decode(tt.token)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeDecode))
		})
	}
}

/*
TestExpired checks the exp boundary: a token is valid only strictly before
its expiry instant.
*/
func TestExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		exp     int64
		expired bool
	}{
		{"future", now.Unix() + 3600, false},
		{"exact_boundary", now.Unix(), true},
		{"past", now.Unix() - 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, jwt.MapClaims{"sub": "alice", "exp": tt.exp})
			claims, err := sec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.expired, sec.Expired(claims, now))
		})
	}
}

/*
TestIdentityClaims_RolePredicates pins the derived-role logic.
*/
func TestIdentityClaims_RolePredicates(t *testing.T) {
	claims := &sec.IdentityClaims{Role: sec.RoleAdmin, Status: sec.StatusPending}
	assert.True(t, claims.IsAdmin())
	assert.False(t, claims.IsApproved())
}
