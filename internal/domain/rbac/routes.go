// Package rbac holds the single declarative route table that gates every protected page
// and the navigation projection derived from it.
package rbac

import (
	"errors"
	"fmt"
	"slices"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// PageID names a protected page.
type PageID string

const (
	PageStaff      PageID = "staff"
	PageProcessing PageID = "processing"
	PageInventory  PageID = "inventory"
	PageDispatch   PageID = "dispatch"
	PageScanner    PageID = "scanner"
	PageAdmin      PageID = "admin"
	PageUsers      PageID = "users"
	PageFarmer     PageID = "farmer"
	PageBatch      PageID = "batch"
)

// Route describes one protected page: where it lives, who may see it, and how it
// appears in navigation. NavLabel is empty for pages that are reachable but not listed.
type Route struct {
	ID           PageID
	Path         string
	AllowedRoles []domainauth.Role
	NavLabel     string
}

// Allows reports whether role is in the route's allowed set.
func (r Route) Allows(role domainauth.Role) bool {
	return role.Valid() && slices.Contains(r.AllowedRoles, role)
}

var (
	plantRoles = []domainauth.Role{domainauth.RoleStaff, domainauth.RoleAdmin, domainauth.RoleOwner}
	adminRoles = []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleOwner}
	anyRole    = []domainauth.Role{
		domainauth.RoleFarmer, domainauth.RoleStaff, domainauth.RoleAdmin, domainauth.RoleOwner,
	}
)

// table order is navigation order.
var table = []Route{
	{ID: PageStaff, Path: "/staff", AllowedRoles: plantRoles, NavLabel: "Intake"},
	{ID: PageProcessing, Path: "/processing", AllowedRoles: plantRoles, NavLabel: "Processing"},
	{ID: PageInventory, Path: "/inventory", AllowedRoles: plantRoles, NavLabel: "Inventory"},
	{ID: PageDispatch, Path: "/dispatch", AllowedRoles: plantRoles, NavLabel: "Dispatch"},
	{ID: PageScanner, Path: "/scanner", AllowedRoles: plantRoles, NavLabel: "QR Scanner"},
	{ID: PageAdmin, Path: "/admin", AllowedRoles: adminRoles, NavLabel: "Dashboard"},
	{ID: PageUsers, Path: "/users", AllowedRoles: adminRoles, NavLabel: "User Management"},
	{ID: PageFarmer, Path: "/farmer", AllowedRoles: []domainauth.Role{domainauth.RoleFarmer}},
	{ID: PageBatch, Path: "/batch/{id}", AllowedRoles: anyRole},
}

// Routes returns a copy of the route table in navigation order.
func Routes() []Route {
	out := make([]Route, len(table))
	for i, r := range table {
		r.AllowedRoles = slices.Clone(r.AllowedRoles)
		out[i] = r
	}
	return out
}

// Lookup returns the route registered for id.
func Lookup(id PageID) (Route, bool) {
	for _, r := range table {
		if r.ID == id {
			r.AllowedRoles = slices.Clone(r.AllowedRoles)
			return r, true
		}
	}
	return Route{}, false
}

// MustLookup is Lookup for ids known at compile time.
func MustLookup(id PageID) Route {
	r, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("rbac: unknown page %q", id))
	}
	return r
}

var (
	errEmptyRoles    = errors.New("route has no allowed roles")
	errUnknownRole   = errors.New("route allows an unknown role")
	errDuplicatePath = errors.New("route path registered twice")
	errNavNotSubset  = errors.New("navigation entry roles exceed route roles")
)

// Validate checks a route table and its navigation projection for consistency.
// The server refuses to start when this fails.
func Validate(routes []Route, nav []NavEntry) error {
	seenPath := make(map[string]bool, len(routes))
	byID := make(map[PageID]Route, len(routes))
	for _, r := range routes {
		if len(r.AllowedRoles) == 0 {
			return fmt.Errorf("%s: %w", r.Path, errEmptyRoles)
		}
		for _, role := range r.AllowedRoles {
			if !role.Valid() {
				return fmt.Errorf("%s (%q): %w", r.Path, role, errUnknownRole)
			}
		}
		if seenPath[r.Path] {
			return fmt.Errorf("%s: %w", r.Path, errDuplicatePath)
		}
		seenPath[r.Path] = true
		byID[r.ID] = r
	}

	for _, n := range nav {
		r, ok := byID[PageID(n.ID)]
		if !ok {
			return fmt.Errorf("nav %s: no route", n.ID)
		}
		for _, role := range n.Roles {
			if !r.Allows(role) {
				return fmt.Errorf("nav %s (%q): %w", n.ID, role, errNavNotSubset)
			}
		}
	}
	return nil
}

// ValidateTable validates the built-in table.
func ValidateTable() error {
	return Validate(Routes(), Entries())
}
