// Copyright (c) 2026 Parsight. All rights reserved.

package gate

import (
	"log/slog"
	"sync"
)

// Navigator tracks the active view and applies the gate on every move.
//
// It also serves as the request pipeline's forced-navigation hook: a 401
// from the backend lands the client on the login view through
// [Navigator.ForceNavigate] without consulting the gate (the session is
// already being torn down at that point).
type Navigator struct {
	mu      sync.Mutex
	state   State
	current string
	log     *slog.Logger
}

// NewNavigator creates a navigator starting at the login view.
func NewNavigator(state State, log *slog.Logger) *Navigator {
	return &Navigator{
		state:   state,
		current: LoginPath,
		log:     log,
	}
}

// Current returns the path of the active view.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

/*
Navigate moves to the requested path, applying the access gate.

Description: Unknown paths fall back to the upload view for authenticated
sessions and to login otherwise, mirroring a catch-all route. For protected
routes the gate decides; on a redirect the navigator lands on the redirect
target instead of the request.

Parameters:
  - path: string

Returns:
  - Decision: Allow when the requested view was entered, otherwise the
    redirect that was followed
*/
func (n *Navigator) Navigate(path string) Decision {
	n.mu.Lock()
	defer n.mu.Unlock()

	route, ok := Lookup(path)
	if !ok {
		fallback := LoginPath
		if n.state.Authenticated() {
			fallback = UploadPath
		}
		n.log.Debug("navigate_unknown_path", slog.String("path", path), slog.String("fallback", fallback))
		route, _ = Lookup(fallback)
	}

	if !route.Protected {
		n.current = route.Path
		return Decision{Allow: true}
	}

	decision := Decide(n.state, route.RequiresApproval)
	if decision.Allow {
		n.current = route.Path
		return decision
	}

	n.log.Debug("navigate_redirected",
		slog.String("requested", route.Path),
		slog.String("redirect", decision.RedirectTo),
	)
	n.current = decision.RedirectTo
	return decision
}

// ForceNavigate sets the active view unconditionally.
func (n *Navigator) ForceNavigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
}
