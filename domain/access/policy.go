package access

import "fmt"

// Role is the clearance level carried by a session.
type Role string

const (
	RoleScientist     Role = "scientist"
	RoleDataScientist Role = "data_scientist"
	// RoleAdmin is reserved; no route is assigned to it yet.
	RoleAdmin Role = "admin"
)

// Route is one of the dashboard's navigable views.
type Route string

const (
	RouteOverview       Route = "/overview"
	RoutePredict        Route = "/predict"
	RouteExplainability Route = "/explainability"
	RouteMetrics        Route = "/metrics"
	RouteSignin         Route = "/signin"
)

// SigninRoute is where anonymous requests for protected routes land.
const SigninRoute = RouteSignin

// FallbackRoute is where authorized sessions land when their role excludes
// the requested route, and the default post-login destination.
const FallbackRoute = RouteOverview

// allowlists is the explicit finite map from role to reachable routes.
// RouteSignin is public and deliberately absent from every allow-list.
var allowlists = map[Role]map[Route]bool{
	RoleScientist: {
		RouteOverview:       true,
		RoutePredict:        true,
		RouteExplainability: true,
	},
	RoleDataScientist: {
		RouteOverview:       true,
		RoutePredict:        true,
		RouteExplainability: true,
		RouteMetrics:        true,
	},
}

// publicRoutes are reachable without a session.
var publicRoutes = map[Route]bool{
	RouteSignin: true,
}

// ProtectedRoutes lists every route governed by the guard, in display order.
func ProtectedRoutes() []Route {
	return []Route{RouteOverview, RoutePredict, RouteExplainability, RouteMetrics}
}

// Allowed reports whether the role's allow-list includes the route.
func Allowed(role Role, route Route) bool {
	return allowlists[role][route]
}

// KnownRole reports whether the role is one the policy recognizes.
func KnownRole(role Role) bool {
	switch role {
	case RoleScientist, RoleDataScientist, RoleAdmin:
		return true
	}
	return false
}

// ValidatePolicy checks the policy map exhaustively at startup: every
// protected route must appear in at least one role's allow-list, otherwise
// the route is unreachable by accident rather than by policy.
func ValidatePolicy() error {
	for _, route := range ProtectedRoutes() {
		reachable := false
		for _, routes := range allowlists {
			if routes[route] {
				reachable = true
				break
			}
		}
		if !reachable {
			return fmt.Errorf("access policy: route %s is reachable by no role", route)
		}
	}
	for role := range allowlists {
		if !KnownRole(role) {
			return fmt.Errorf("access policy: unknown role %q in allow-list", role)
		}
	}
	return nil
}
