package v1

const (
	// SessionCookieName carries the browser session token for page routes.
	SessionCookieName = "forge_session"

	// DefaultAdminEmail and DefaultAdminPassword identify the seeded administrative account.
	DefaultAdminEmail    = "admin@forge.local"
	DefaultAdminPassword = "admin123"

	// Browser-facing headings the scenario suite keys on.
	DashboardHeading = "Welcome back!"
	NotFoundHeading  = "404"
	NotFoundMessage  = "Page not found"
)
