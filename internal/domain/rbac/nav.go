package rbac

import (
	"slices"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// NavEntry is one navigation link. It is a read-only projection of a Route and never
// grants access on its own.
type NavEntry struct {
	ID    string
	Label string
	Path  string
	Roles []domainauth.Role
}

// Entries returns every navigation entry in display order.
func Entries() []NavEntry {
	out := make([]NavEntry, 0, len(table))
	for _, r := range table {
		if r.NavLabel == "" {
			continue
		}
		out = append(out, NavEntry{
			ID:    string(r.ID),
			Label: r.NavLabel,
			Path:  r.Path,
			Roles: slices.Clone(r.AllowedRoles),
		})
	}
	return out
}

// VisibleEntries returns the entries the role may see, preserving display order.
func VisibleEntries(role domainauth.Role) []NavEntry {
	all := Entries()
	out := all[:0]
	for _, e := range all {
		if role.Valid() && slices.Contains(e.Roles, role) {
			out = append(out, e)
		}
	}
	return out
}
