package auth

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := map[string]struct {
		role Role
		ok   bool
	}{
		"farmer":    {RoleFarmer, true},
		" Staff ":   {RoleStaff, true},
		"ADMIN":     {RoleAdmin, true},
		"owner":     {RoleOwner, true},
		"":          {"", false},
		"guest":     {"", false},
		"superuser": {"", false},
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		if got != want.role || ok != want.ok {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q, %v", in, got, ok, want.role, want.ok)
		}
	}
}

func TestLandingPath(t *testing.T) {
	if got := LandingPath(RoleFarmer); got != "/farmer" {
		t.Fatalf("farmer landing = %q", got)
	}
	if got := LandingPath(RoleAdmin); got != "/admin" {
		t.Fatalf("admin landing = %q", got)
	}
	for _, r := range []Role{RoleStaff, RoleOwner} {
		if got := LandingPath(r); got != "/staff" {
			t.Fatalf("%s landing = %q", r, got)
		}
	}
}

func TestSession_ExpiredAndIdentity(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ID: "s", UserID: "u", Email: "e", Role: RoleOwner, ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("did not expect expiry")
	}
	if !s.Expired(now.Add(2 * time.Minute)) {
		t.Fatalf("expected expiry")
	}
	id := s.Identity()
	if id.UserID != "u" || id.Role != RoleOwner {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
