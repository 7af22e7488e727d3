// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package transport implements the outbound request pipeline to the PARS
backend.

Every call made by the client flows through here. The pipeline attaches the
stored bearer credential, stamps a correlation ID, applies a client-side rate
limit, and reacts uniformly to authorization failures:

  - 401: the credential is invalid or expired. The store is cleared, the
    navigator is forced to the login view, and the failure still surfaces to
    the caller so nothing hangs.
  - 403: the credential is valid but lacks privilege. Passed through
    unchanged for caller-level handling; the session is left intact.

The distinction is intentional and mirrors the backend's contract.
*/
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"parsight/internal/platform/apperr"
	"parsight/internal/platform/credstore"
)

// loginRedirectPath is where a forced logout lands the client.
const loginRedirectPath = "/login"

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 1 << 20

// Navigator is the pipeline's hook for forced client-side navigation.
//
// Only the 401 reaction uses it; ordinary navigation stays with the gate.
type Navigator interface {
	ForceNavigate(path string)
}

// Client is the HTTP pipeline carrying all traffic to the backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	creds   credstore.Store
	nav     Navigator
	limiter *rate.Limiter
	log     *slog.Logger
}

// Option customizes pipeline construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying [http.Client].
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each outbound request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit overrides the default client-side request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

/*
New constructs the request pipeline.

Parameters:
  - baseURL: string (backend base URL, fixed at process configuration)
  - creds: credstore.Store (shared credential store)
  - nav: Navigator (forced-navigation hook)
  - log: *slog.Logger
  - opts: ...Option

Returns:
  - *Client: Ready pipeline
  - error: Malformed base URL
*/
func New(baseURL string, creds credstore.Store, nav Navigator, log *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("transport: invalid base URL %q", baseURL)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: 15 * time.Second},
		creds:   creds,
		nav:     nav,
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// # Request Envelope

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil. Mutually exclusive with Form.
	Body any

	// Form is sent urlencoded when non-nil (the backend's token endpoint
	// speaks forms, not JSON).
	Form url.Values

	// Retry marks a request that has already been through a 401 reaction.
	// A 401 on a retried request fails without forcing another logout, so
	// the pipeline can never loop.
	Retry bool
}

// detailEnvelope is the backend's error body shape.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

// # Convenience Verbs

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// PostForm issues a POST with a urlencoded form body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form}, out)
}

// Put issues a PUT with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// # Pipeline Core

/*
Do executes one request through the full pipeline.

Description: Applies the rate limiter, attaches the bearer credential when
one is stored, and maps the response onto the client error taxonomy. A 2xx
response is decoded into out when out is non-nil.

Parameters:
  - ctx: context.Context
  - req: Request
  - out: any (pointer to the JSON destination, may be nil)

Returns:
  - error: apperr taxonomy errors; nil on success
*/
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("transport: rate limit wait: %w", err)
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("request_transport_failure",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Any("error", err),
		)
		return apperr.Network(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return c.reactUnauthorized(req, resp)

	case resp.StatusCode == http.StatusForbidden:
		// Privilege problem, not a credential problem. The session may
		// still be valid, so no logout happens here.
		return apperr.Forbidden(c.detail(resp, "Insufficient permissions"))

	case resp.StatusCode >= 400:
		return apperr.Upstream(resp.StatusCode, c.detail(resp, ""))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(resp.StatusCode, "Malformed response body")
	}
	return nil
}

// build assembles the outbound [http.Request] with credential, correlation
// ID, and body encoding.
func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target := c.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// The credential is read from the shared store on every request rather
	// than cached, so a concurrent logout is picked up immediately.
	if token, ok := c.creds.Token(); ok {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// reactUnauthorized implements the global 401 reaction: clear the stored
// credential, force the client onto the login view, and surface the failure
// to the caller.
func (c *Client) reactUnauthorized(req Request, resp *http.Response) error {
	detail := c.detail(resp, "Session is invalid or expired")

	if !req.Retry {
		if err := c.creds.Clear(); err != nil {
			c.log.Error("credential_clear_failed", slog.Any("error", err))
		}
		c.nav.ForceNavigate(loginRedirectPath)
		c.log.Info("forced_logout",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
		)
	}

	return apperr.Unauthorized(detail)
}

// detail extracts the backend's error message, falling back when absent.
func (c *Client) detail(resp *http.Response, fallback string) string {
	var envelope detailEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return fallback
}
