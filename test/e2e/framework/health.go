package framework

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/semver"
)

// HealthStatus is the decoded body of GET /health.
type HealthStatus struct {
	StatusCode  int
	ContentType string
	Status      string
	Version     string
}

// Healthy reports whether the endpoint answered any 2xx.
func (h *HealthStatus) Healthy() bool {
	return h.StatusCode >= http.StatusOK && h.StatusCode < http.StatusMultipleChoices
}

func (h *HealthStatus) OK() bool {
	return h.StatusCode == http.StatusOK && h.Status == v1.HealthStatusOK
}

// AtLeast reports whether the target's version is minimum or newer.
func (h *HealthStatus) AtLeast(minimum string) (bool, error) {
	if h.Version == "" {
		return false, fmt.Errorf("target did not report a version")
	}

	return semver.AtLeast(strings.TrimPrefix(h.Version, "v"), strings.TrimPrefix(minimum, "v"))
}

// CheckHealth makes one bounded GET /health call and reports whether it answered 2xx.
// Any failure, including the bound expiring, yields false.
func (c *Client) CheckHealth(ctx context.Context) bool {
	status, err := c.Health(ctx)
	if err != nil {
		klog.V(2).Infof("Health check of %s failed: %v", c.apiEndpoint, err)
		return false
	}

	return status.Healthy()
}

// Health makes one bounded GET /health call and decodes the status. Bodies
// that are not JSON leave Status and Version empty.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, c.url("/health"), nil, nil)
	if err != nil {
		return nil, err
	}

	status := &HealthStatus{StatusCode: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}

	var body v1.HealthStatus
	if err := resp.JSON(&body); err == nil {
		status.Status = body.Status
		status.Version = body.Version
	}

	return status, nil
}

// Availability separates "the environment is up" from scenario assertions.
type Availability struct {
	API      bool
	Frontend bool
}

// Ready reports whether both the API and the web UI answered.
func (a Availability) Ready() bool {
	return a.API && a.Frontend
}

func (a Availability) String() string {
	return fmt.Sprintf("api=%t frontend=%t", a.API, a.Frontend)
}

// ProbeAvailability checks the API health endpoint and that the web UI serves
// its login page, each within cfg.HealthTimeout.
func ProbeAvailability(ctx context.Context, cfg *Config) Availability {
	client := NewClientFromConfig(cfg)

	availability := Availability{API: client.CheckHealth(ctx)}

	fctx, cancel := context.WithTimeout(ctx, cfg.HealthTimeout)
	defer cancel()

	resp, err := client.do(fctx, http.MethodGet, strings.TrimSuffix(cfg.FrontendURL, "/")+"/login", nil, nil)
	if err != nil {
		klog.V(2).Infof("Frontend probe of %s failed: %v", cfg.FrontendURL, err)
	} else {
		availability.Frontend = resp.StatusCode < http.StatusInternalServerError
	}

	klog.Infof("Target availability: %s", availability)

	return availability
}
