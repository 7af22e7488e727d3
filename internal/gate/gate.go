// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package gate implements route-level access control over session state.

It maps the current authorization state onto allow-or-redirect decisions for
the client's views, and owns the navigator that tracks which view is active.

# Policy

The gate applies a strict two-tier policy. An unauthenticated visitor is sent
to the login view. An authenticated but unapproved account asking for an
approval-gated view is sent to the dashboard instead, because it holds valid
credentials and merely lacks privilege. Collapsing the two tiers would change
observable redirect behavior, so both checks stay explicit.
*/
package gate

// State is the read-only session view the gate decides over.
//
// Defining the interface here decouples the gate from the session package
// and lets tests fabricate arbitrary states.
type State interface {
	Authenticated() bool
	IsApproved() bool
}

// Decision is the outcome of a gate check.
//
// Either Allow is true, or RedirectTo names the view to land on instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

/*
Decide applies the access policy for a destination.

Description: Pure function of its inputs; identical (state, requiresApproval)
pairs always yield identical decisions.

Parameters:
  - state: State
  - requiresApproval: bool

Returns:
  - Decision: Allow, or the redirect target
*/
func Decide(state State, requiresApproval bool) Decision {
	if !state.Authenticated() {
		return Decision{RedirectTo: LoginPath}
	}

	if requiresApproval && !state.IsApproved() {
		return Decision{RedirectTo: DashboardPath}
	}

	return Decision{Allow: true}
}
