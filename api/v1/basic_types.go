package v1

// HealthStatusOK is the status a healthy target reports.
const HealthStatusOK = "ok"

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h HealthStatus) OK() bool {
	return h.Status == HealthStatusOK
}

// ErrorResponse is the JSON error body shared by every API route.
type ErrorResponse struct {
	Error string `json:"error"`
}
