// Package guard decides whether a route's content may be rendered for the
// current session. The decision is pure; performing the redirect or
// rendering the waiting view is the caller's job.
package guard

import "cargoflow/session"

// Decision is the outcome of an access check.
type Decision int

const (
	// Pending means verification is still in flight. Render a waiting
	// indicator; never redirect, or a valid session bounces to login.
	Pending Decision = iota
	// Allow renders the guarded content.
	Allow
	// DenyLogin redirects to the login view: no identity is present.
	DenyLogin
	// DenyRole routes to the unauthorized view: a valid session lacks the
	// required role. Distinct from DenyLogin on purpose.
	DenyRole
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case DenyLogin:
		return "deny_login"
	case DenyRole:
		return "deny_role"
	default:
		return "unknown"
	}
}

// Decide gates a route given the session snapshot and the roles allowed to
// view it. An empty role set means "any logged-in role".
//
// The check order is load-bearing: loading before identity-null before role
// membership. Reordering misclassifies a not-yet-verified session as logged
// out.
func Decide(s session.Snapshot, required []session.Role) Decision {
	if s.Loading {
		return Pending
	}
	if s.Identity == nil {
		return DenyLogin
	}
	// A role outside the closed set fails loudly instead of slipping
	// through an unrestricted route.
	if !s.Identity.Role.Valid() {
		return DenyRole
	}
	if len(required) == 0 {
		return Allow
	}
	for _, r := range required {
		if r == s.Identity.Role {
			return Allow
		}
	}
	return DenyRole
}
