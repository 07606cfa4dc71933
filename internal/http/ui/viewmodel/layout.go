// Package viewmodel holds the typed data handed to templates.
package viewmodel

// User represents the authenticated user context exposed to templates.
type User struct {
	Name    string
	Email   string
	Role    string
	Picture string
}

// NavItem is one visible navigation link.
type NavItem struct {
	ID     string
	Label  string
	Path   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation, auth state).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
	// Notice is a soft, dismissible banner such as the forbidden-page notice.
	Notice string
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
