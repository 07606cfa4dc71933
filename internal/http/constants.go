package httpx

import "github.com/aquaflow/aquaflow-ui/internal/domain/rbac"

// CurrentPage constants define the page identifiers used in templates and navigation.
// Protected pages reuse the route table ids so nav highlighting and gating agree.
const (
	PageFarmer     = string(rbac.PageFarmer)
	PageStaff      = string(rbac.PageStaff)
	PageProcessing = string(rbac.PageProcessing)
	PageInventory  = string(rbac.PageInventory)
	PageDispatch   = string(rbac.PageDispatch)
	PageScanner    = string(rbac.PageScanner)
	PageAdmin      = string(rbac.PageAdmin)
	PageUsers      = string(rbac.PageUsers)
	PageBatch      = string(rbac.PageBatch)

	// Public pages.
	PageLogin    = "login"
	PageCallback = "callback"
	PageNotFound = "not-found"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Cookie names owned by the UI server.
const (
	SessionCookieName = "aquaflow_session"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageFarmer:     "farmer-content",
	PageStaff:      "staff-content",
	PageProcessing: "processing-content",
	PageInventory:  "inventory-content",
	PageDispatch:   "dispatch-content",
	PageScanner:    "scanner-content",
	PageAdmin:      "admin-content",
	PageUsers:      "users-content",
	PageBatch:      "batch-content",
	PageLogin:      "login-content",
	PageCallback:   "callback-content",
	PageNotFound:   "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
