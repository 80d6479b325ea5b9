package guard

import (
	"testing"

	"cargoflow/session"
)

func identity(role session.Role) *session.Identity {
	return &session.Identity{Email: "x@example.com", Role: role}
}

func TestDecide_LoadingAlwaysPending(t *testing.T) {
	cases := []struct {
		name     string
		snap     session.Snapshot
		required []session.Role
	}{
		{"no identity, no roles", session.Snapshot{Loading: true}, nil},
		{"identity present", session.Snapshot{Loading: true, Identity: identity(session.RoleAdmin)}, nil},
		{"identity and roles", session.Snapshot{Loading: true, Identity: identity(session.RoleUser)}, []session.Role{session.RoleSuperadmin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.snap, tc.required); got != Pending {
				t.Fatalf("expected pending, got %s", got)
			}
		})
	}
}

func TestDecide_NoIdentityDeniesToLogin(t *testing.T) {
	snap := session.Snapshot{}
	if got := Decide(snap, nil); got != DenyLogin {
		t.Fatalf("expected deny_login, got %s", got)
	}
	if got := Decide(snap, []session.Role{session.RoleAdmin}); got != DenyLogin {
		t.Fatalf("expected deny_login before any role check, got %s", got)
	}
}

func TestDecide_RoleGating(t *testing.T) {
	admin := session.Snapshot{Identity: identity(session.RoleAdmin)}

	if got := Decide(admin, []session.Role{session.RoleSuperadmin}); got != DenyRole {
		t.Fatalf("admin on a superadmin route: expected deny_role, got %s", got)
	}
	if got := Decide(admin, []session.Role{session.RoleAdmin}); got != Allow {
		t.Fatalf("admin on an admin route: expected allow, got %s", got)
	}
	if got := Decide(admin, nil); got != Allow {
		t.Fatalf("admin on an any-role route: expected allow, got %s", got)
	}
	if got := Decide(admin, []session.Role{session.RoleAdmin, session.RoleSuperadmin}); got != Allow {
		t.Fatalf("admin in a multi-role set: expected allow, got %s", got)
	}
}

func TestDecide_UnknownRoleFailsLoudly(t *testing.T) {
	snap := session.Snapshot{Identity: identity(session.Role("owner"))}

	if got := Decide(snap, nil); got != DenyRole {
		t.Fatalf("unknown role on an unrestricted route: expected deny_role, got %s", got)
	}
	if got := Decide(snap, []session.Role{session.RoleUser}); got != DenyRole {
		t.Fatalf("unknown role on a user route: expected deny_role, got %s", got)
	}
}
