package access

// Verdict is the navigation outcome the guard decides for one request.
type Verdict int

const (
	// VerdictProceed lets the request through unchanged.
	VerdictProceed Verdict = iota
	// VerdictSignin redirects to the sign-in view, remembering the
	// originally requested path for the post-login redirect.
	VerdictSignin
	// VerdictFallback silently redirects to the overview view.
	VerdictFallback
)

// Decision is the guard's outcome plus the redirect target when applicable.
type Decision struct {
	Verdict    Verdict
	RedirectTo Route
	// RememberPath is the originally requested path to restore after login.
	// Only set for VerdictSignin.
	RememberPath Route
}

// Decide maps (session presence, role, requested route) to a navigation
// outcome. Authorization failures are handled structurally as redirects,
// never as errors.
func Decide(hasToken bool, role Role, requested Route) Decision {
	if publicRoutes[requested] {
		return Decision{Verdict: VerdictProceed}
	}
	if !hasToken {
		return Decision{
			Verdict:      VerdictSignin,
			RedirectTo:   SigninRoute,
			RememberPath: requested,
		}
	}
	if !Allowed(role, requested) {
		return Decision{Verdict: VerdictFallback, RedirectTo: FallbackRoute}
	}
	return Decision{Verdict: VerdictProceed}
}

// PostLoginTarget resolves where a fresh login or signup should land: the
// remembered original path when one exists, otherwise the overview.
func PostLoginTarget(remembered Route) Route {
	if remembered == "" || publicRoutes[remembered] {
		return FallbackRoute
	}
	return remembered
}
