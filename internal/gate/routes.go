// Copyright (c) 2026 Parsight. All rights reserved.

package gate

// # View Paths

const (
	LoginPath        = "/login"
	RegisterPath     = "/register"
	ConfirmationPath = "/confirmation"
	UploadPath       = "/upload"
	DashboardPath    = "/dashboard"
	UsersPath        = "/dashboard/users"
	AnalyticsPath    = "/analytics"
)

// Route describes one navigable view and its access requirements.
type Route struct {
	Path  string
	Label string

	// Protected routes require an authenticated session.
	Protected bool

	// RequiresApproval routes additionally require an approved account.
	// The dashboard is protected but not approval-gated: it is the landing
	// area for accounts still awaiting review.
	RequiresApproval bool
}

// routes is the fixed navigation table of the client.
var routes = []Route{
	{Path: LoginPath, Label: "Login"},
	{Path: RegisterPath, Label: "Register"},
	{Path: ConfirmationPath, Label: "Confirmation"},
	{Path: UploadPath, Label: "Upload", Protected: true, RequiresApproval: true},
	{Path: DashboardPath, Label: "Dashboard", Protected: true},
	{Path: UsersPath, Label: "Users", Protected: true, RequiresApproval: true},
	{Path: AnalyticsPath, Label: "Analytics", Protected: true, RequiresApproval: true},
}

// Routes returns a copy of the navigation table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Lookup finds the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
