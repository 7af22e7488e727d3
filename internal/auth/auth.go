// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package auth implements the client side of the authentication endpoints:
credential exchange and self-registration.

It only talks to the backend; session state is updated by the caller, which
hands the freshly issued token to the session layer. Keeping the two apart
preserves the rule that the session itself never performs network calls.
*/
package auth

import (
	"context"
	"net/url"

	"parsight/internal/platform/apperr"
	"parsight/internal/platform/transport"
	"parsight/internal/platform/validate"
)

const (
	tokenPath    = "/token"
	registerPath = "/register"
)

// TokenResponse is the credential envelope issued by the backend.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

/*
Login exchanges a username and password for a bearer token.

Description: The token endpoint speaks urlencoded forms (OAuth2 password
flow), not JSON.

Parameters:
  - ctx: context.Context
  - client: *transport.Client
  - username: string
  - password: string

Returns:
  - string: Freshly issued bearer token
  - error: apperr taxonomy errors
*/
func Login(ctx context.Context, client *transport.Client, username, password string) (string, error) {
	if err := (&validate.Validator{}).
		Required("username", username).
		Required("password", password).
		Err(); err != nil {
		return "", err
	}

	form := url.Values{
		"username": {username},
		"password": {password},
	}

	var out TokenResponse
	if err := client.PostForm(ctx, tokenPath, form, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", apperr.Upstream(0, "Token endpoint returned no credential")
	}
	return out.AccessToken, nil
}

// RegisterInput holds the data required to request an account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register submits a self-service account request.

Description: New accounts start in the pending status and must be approved
by an administrator before the gated views open up.

Parameters:
  - ctx: context.Context
  - client: *transport.Client
  - input: RegisterInput

Returns:
  - error: Validation or apperr taxonomy errors
*/
func Register(ctx context.Context, client *transport.Client, input RegisterInput) error {
	if err := (&validate.Validator{}).
		Required("username", input.Username).
		MinLen("username", input.Username, 3).
		Email("email", input.Email).
		MinLen("password", input.Password, 8).
		Err(); err != nil {
		return err
	}

	return client.Post(ctx, registerPath, input, nil)
}
