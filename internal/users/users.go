// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package users implements the admin-facing account directory: the user
listing and the confirmation-gated mutations over it.

# Architecture

The backend exposes the user collection as a flat array, so unlike the
records listing the pagination and filtering here happen client-side inside
the fetcher. The listing protocol the view consumes is identical for both.
*/
package users

import (
	"context"
	"fmt"
	"strings"

	"parsight/internal/listing"
	"parsight/internal/platform/sec"
	"parsight/internal/platform/transport"
	"parsight/internal/platform/validate"
)

const usersPath = "/users/"

// UserRecord is one account row of the admin directory.
type UserRecord struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     sec.UserRole      `json:"role"`
	Status   sec.AccountStatus `json:"status"`
}

// Fields returns the row's display values for free-text matching.
func (u UserRecord) Fields() []string {
	return []string{
		fmt.Sprintf("%d", u.ID),
		u.Username,
		u.Email,
		string(u.Role),
		string(u.Status),
	}
}

// field returns the named filterable column, or false for unknown names.
func (u UserRecord) field(name string) (string, bool) {
	switch name {
	case "username":
		return u.Username, true
	case "email":
		return u.Email, true
	case "role":
		return string(u.Role), true
	case "status":
		return string(u.Status), true
	default:
		return "", false
	}
}

// # Backend Client

// Client wraps the user-administration endpoints.
type Client struct {
	api *transport.Client
}

// NewClient constructs the user-administration client.
func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

// List fetches every account. Admin only; non-admin credentials surface as
// a 403 through the pipeline.
func (c *Client) List(ctx context.Context) ([]UserRecord, error) {
	var out []UserRecord
	if err := c.api.Get(ctx, usersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve moves a pending account into the approved status.
func (c *Client) Approve(ctx context.Context, id int64) error {
	return c.api.Put(ctx, fmt.Sprintf("/users/approve/%d", id), nil, nil)
}

// Reject moves a pending account into the rejected status.
func (c *Client) Reject(ctx context.Context, id int64) error {
	return c.api.Put(ctx, fmt.Sprintf("/users/reject/%d", id), nil, nil)
}

// Delete removes an account entirely.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/users/%d", id))
}

// CreateInput holds the data an administrator supplies for a new account.
type CreateInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Validate checks the input client-side before it travels.
func (in CreateInput) Validate() error {
	return (&validate.Validator{}).
		Required("username", in.Username).
		MinLen("username", in.Username, 3).
		Email("email", in.Email).
		MinLen("password", in.Password, 8).
		OneOf("role", in.Role, string(sec.RoleAdmin), string(sec.RoleUser)).
		OneOf("status", in.Status, string(sec.StatusPending), string(sec.StatusApproved), string(sec.StatusRejected)).
		Err()
}

// Create provisions an account directly in the given role and status.
func (c *Client) Create(ctx context.Context, input CreateInput) (UserRecord, error) {
	if err := input.Validate(); err != nil {
		return UserRecord{}, err
	}

	var created UserRecord
	if err := c.api.Post(ctx, usersPath, input, &created); err != nil {
		return UserRecord{}, err
	}
	return created, nil
}

// DeleteSelf removes the calling account (the profile view's own-account
// deletion). The caller is responsible for the follow-up logout.
func (c *Client) DeleteSelf(ctx context.Context) error {
	return c.api.Delete(ctx, "/users/me/")
}

// # Listing Fetcher

/*
NewFetcher builds the listing fetcher for the admin user directory.

Description: The backend returns the full account array, so filters and
pagination are applied here. Filters match their column case-insensitively
and exactly; the reported total counts the filtered set, which keeps the
pagination controls consistent with what is navigable.

Parameters:
  - c: *Client

Returns:
  - listing.Fetcher[UserRecord]: Fetcher with client-side paging
*/
func NewFetcher(c *Client) listing.Fetcher[UserRecord] {
	return func(ctx context.Context, q listing.Query) (listing.Result[UserRecord], error) {
		all, err := c.List(ctx)
		if err != nil {
			return listing.Result[UserRecord]{}, err
		}

		filtered := all[:0:0]
		for _, u := range all {
			if matchesFilters(u, q.Filters) {
				filtered = append(filtered, u)
			}
		}

		start := (q.Page - 1) * q.PageSize
		if start > len(filtered) {
			start = len(filtered)
		}
		end := min(start+q.PageSize, len(filtered))

		return listing.Result[UserRecord]{
			Items: filtered[start:end],
			Total: len(filtered),
		}, nil
	}
}

func matchesFilters(u UserRecord, filters map[string]string) bool {
	for name, want := range filters {
		have, ok := u.field(name)
		if !ok || !strings.EqualFold(have, want) {
			return false
		}
	}
	return true
}
