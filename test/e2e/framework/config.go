package framework

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forge-qa/forge-e2e/internal/util"
)

const (
	DefaultFrontendURL   = "http://localhost:8888"
	DefaultHealthTimeout = 5 * time.Second

	TargetRemote = "remote"
	TargetStub   = "stub"
)

// Config holds the test configuration loaded from environment variables.
type Config struct {
	FrontendURL   string        // Forge web UI base URL
	APIURL        string        // Forge API base URL
	Debug         bool          // NODE_ENV=debug
	CI            bool          // running under CI; forces headless
	Credentials   Credentials   // account used by the suites
	Target        string        // "remote" or "stub"
	Headless      bool          // run Chrome headless
	ChromePath    string        // explicit Chrome/Chromium binary
	SkipBrowser   bool          // skip browser scenarios
	ArtifactDir   string        // where failure screenshots go; empty disables capture
	HealthTimeout time.Duration // bound of the health pre-flight
}

// NewConfigFromEnv creates a new Config from environment variables.
func NewConfigFromEnv() *Config {
	frontendURL := strings.TrimSuffix(getEnv("FRONTEND_URL", DefaultFrontendURL), "/")
	ci := getEnvBool("CI", false)

	return &Config{
		FrontendURL: frontendURL,
		APIURL:      strings.TrimSuffix(getEnv("API_URL", frontendURL+"/api"), "/"),
		Debug:       getEnv("NODE_ENV", "") == "debug",
		CI:          ci,
		Credentials: Credentials{
			Email:    getEnv("FORGE_ADMIN_EMAIL", DefaultCredentials.Email),
			Password: getEnv("FORGE_ADMIN_PASSWORD", DefaultCredentials.Password),
		},
		Target:        getEnv("E2E_TARGET", TargetRemote),
		Headless:      ci || getEnvBool("E2E_HEADLESS", true),
		ChromePath:    getEnv("E2E_CHROME_PATH", ""),
		SkipBrowser:   getEnvBool("E2E_SKIP_BROWSER", false),
		ArtifactDir:   getEnv("E2E_ARTIFACT_DIR", ""),
		HealthTimeout: getEnvDuration("E2E_HEALTH_TIMEOUT", DefaultHealthTimeout),
	}
}

// Validate checks the URLs and the target mode.
func (c *Config) Validate() error {
	if !util.IsHTTPOrHTTPSURL(c.FrontendURL) {
		return fmt.Errorf("FRONTEND_URL %q is not an http(s) URL", c.FrontendURL)
	}

	if !util.IsHTTPOrHTTPSURL(c.APIURL) {
		return fmt.Errorf("API_URL %q is not an http(s) URL", c.APIURL)
	}

	if c.Target != TargetRemote && c.Target != TargetStub {
		return fmt.Errorf("E2E_TARGET must be %q or %q, got %q", TargetRemote, TargetStub, c.Target)
	}

	if c.HealthTimeout <= 0 {
		return fmt.Errorf("E2E_HEALTH_TIMEOUT must be positive, got %s", c.HealthTimeout)
	}

	return nil
}

// WithTarget points the config at another deployment, keeping every other setting.
func (c *Config) WithTarget(frontendURL, apiURL string) *Config {
	out := *c
	out.FrontendURL = strings.TrimSuffix(frontendURL, "/")
	out.APIURL = strings.TrimSuffix(apiURL, "/")

	return &out
}

// Verbosity is the klog level matching NODE_ENV.
func (c *Config) Verbosity() int {
	if c.Debug {
		return 4
	}

	return 0
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}

	return d
}
