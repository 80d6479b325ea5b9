package session

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether the role belongs to the closed set of access levels.
// Anything else is treated as a hard failure at the guard boundary rather
// than silently falling through to a default view.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	default:
		return false
	}
}

// Identity is the verified user attached to the current session.
// It mirrors the backend's user payload and should not grow fields the
// verification endpoint does not return.
type Identity struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// State tracks the session lifecycle. Verifying is entered at most once, by
// Initialize, and exited exactly once.
type State int

const (
	StateUninitialized State = iota
	StateVerifying
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is the read-only view handed to route guards and views. Identity
// is non-nil iff a verified token exists; while Loading is true the identity
// must not be trusted.
type Snapshot struct {
	Loading  bool
	Identity *Identity
}
