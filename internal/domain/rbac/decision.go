package rbac

import (
	"net/url"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// Outcome is the result of gating a request against a route.
type Outcome int

const (
	// OutcomeAllow renders the page.
	OutcomeAllow Outcome = iota
	// OutcomeLogin sends an anonymous visitor to the login page.
	OutcomeLogin
	// OutcomeForbidden sends an authenticated visitor to their own landing page.
	OutcomeForbidden
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeLogin:
		return "login"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// LoginPath is the public sign-in page.
const LoginPath = "/login"

// NoticeForbidden is appended to the landing page when a visitor is bounced from a page
// their role cannot see.
const NoticeForbidden = "forbidden"

// Decision carries the outcome and where to send the visitor when it is not Allow.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide gates a route for the given identity. A nil identity means no session.
func Decide(identity *domainauth.Identity, route Route) Decision {
	if identity == nil {
		return Decision{Outcome: OutcomeLogin, Location: LoginPath}
	}
	if !route.Allows(identity.Role) {
		return Decision{Outcome: OutcomeForbidden, Location: forbiddenLocation(identity.Role)}
	}
	return Decision{Outcome: OutcomeAllow}
}

func forbiddenLocation(role domainauth.Role) string {
	if !role.Valid() {
		return LoginPath
	}
	q := url.Values{}
	q.Set("notice", NoticeForbidden)
	return domainauth.LandingPath(role) + "?" + q.Encode()
}
