package rbac

import (
	"testing"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTable(t *testing.T) {
	require.NoError(t, ValidateTable())
}

func TestValidate_RejectsBadTables(t *testing.T) {
	t.Run("empty roles", func(t *testing.T) {
		err := Validate([]Route{{ID: "x", Path: "/x"}}, nil)
		require.ErrorIs(t, err, errEmptyRoles)
	})
	t.Run("unknown role", func(t *testing.T) {
		err := Validate([]Route{{ID: "x", Path: "/x", AllowedRoles: []domainauth.Role{"guest"}}}, nil)
		require.ErrorIs(t, err, errUnknownRole)
	})
	t.Run("duplicate path", func(t *testing.T) {
		roles := []domainauth.Role{domainauth.RoleStaff}
		err := Validate([]Route{
			{ID: "a", Path: "/x", AllowedRoles: roles},
			{ID: "b", Path: "/x", AllowedRoles: roles},
		}, nil)
		require.ErrorIs(t, err, errDuplicatePath)
	})
	t.Run("nav wider than route", func(t *testing.T) {
		err := Validate(
			[]Route{{ID: "a", Path: "/a", AllowedRoles: []domainauth.Role{domainauth.RoleAdmin}}},
			[]NavEntry{{ID: "a", Path: "/a", Roles: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStaff}}},
		)
		require.ErrorIs(t, err, errNavNotSubset)
	})
}

func TestDecide_AllowsIffRoleInSet(t *testing.T) {
	for _, route := range Routes() {
		for _, role := range domainauth.AllRoles() {
			id := &domainauth.Identity{UserID: "u", Role: role}
			got := Decide(id, route)
			if route.Allows(role) {
				assert.Equal(t, OutcomeAllow, got.Outcome, "%s as %s", route.Path, role)
				continue
			}
			assert.Equal(t, OutcomeForbidden, got.Outcome, "%s as %s", route.Path, role)
			assert.Equal(t, domainauth.LandingPath(role)+"?notice=forbidden", got.Location)
		}
	}
}

func TestDecide_NoSessionGoesToLogin(t *testing.T) {
	for _, route := range Routes() {
		got := Decide(nil, route)
		assert.Equal(t, OutcomeLogin, got.Outcome)
		assert.Equal(t, LoginPath, got.Location)
	}
}

func TestDecide_UnknownRoleNeverAllowed(t *testing.T) {
	id := &domainauth.Identity{UserID: "u", Role: "superuser"}
	for _, route := range Routes() {
		got := Decide(id, route)
		assert.Equal(t, OutcomeForbidden, got.Outcome)
		assert.Equal(t, LoginPath, got.Location)
	}
}

func TestOwnerIncludedWhereverAdminIs(t *testing.T) {
	for _, route := range Routes() {
		if route.Allows(domainauth.RoleAdmin) {
			assert.True(t, route.Allows(domainauth.RoleOwner), route.Path)
		}
	}
}

func TestVisibleEntries_Order(t *testing.T) {
	labels := func(entries []NavEntry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Label)
		}
		return out
	}

	assert.Equal(t,
		[]string{"Intake", "Processing", "Inventory", "Dispatch", "QR Scanner", "Dashboard", "User Management"},
		labels(VisibleEntries(domainauth.RoleOwner)))
	assert.Equal(t,
		[]string{"Intake", "Processing", "Inventory", "Dispatch", "QR Scanner"},
		labels(VisibleEntries(domainauth.RoleStaff)))
	assert.Empty(t, VisibleEntries(domainauth.RoleFarmer))
	assert.Empty(t, VisibleEntries("guest"))
}

func TestVisibleEntries_AcceptedByRouter(t *testing.T) {
	for _, role := range domainauth.AllRoles() {
		for _, entry := range VisibleEntries(role) {
			route, ok := Lookup(PageID(entry.ID))
			require.True(t, ok, entry.ID)
			assert.Equal(t, OutcomeAllow, Decide(&domainauth.Identity{Role: role}, route).Outcome,
				"%s visible to %s but not allowed", entry.Path, role)
		}
	}
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	r := Routes()
	r[0].AllowedRoles[0] = domainauth.RoleFarmer
	assert.False(t, MustLookup(PageStaff).Allows(domainauth.RoleFarmer))
}
