package global

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

var (
	FrontendURL   string
	APIURL        string
	Email         string
	Password      string
	HealthTimeout time.Duration
)

// AddFlags registers the target and account flags as persistent flags on the root command.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&FrontendURL, "frontend-url", "", "Forge web UI URL (env: FRONTEND_URL)")
	cmd.PersistentFlags().StringVar(&APIURL, "api-url", "", "Forge API URL, defaults to <frontend-url>/api (env: API_URL)")
	cmd.PersistentFlags().StringVar(&Email, "email", "", "Account email (env: FORGE_ADMIN_EMAIL)")
	cmd.PersistentFlags().StringVar(&Password, "password", "", "Account password (env: FORGE_ADMIN_PASSWORD)")
	cmd.PersistentFlags().DurationVar(&HealthTimeout, "health-timeout", 0, "Bound of one health check (env: E2E_HEALTH_TIMEOUT)")
}

// Config loads the environment and applies the flags that were set over it.
func Config() (*framework.Config, error) {
	cfg := framework.NewConfigFromEnv()

	if FrontendURL != "" {
		api := APIURL
		if api == "" {
			api = strings.TrimSuffix(FrontendURL, "/") + "/api"
		}

		cfg = cfg.WithTarget(FrontendURL, api)
	} else if APIURL != "" {
		cfg = cfg.WithTarget(cfg.FrontendURL, APIURL)
	}

	if Email != "" {
		cfg.Credentials.Email = Email
	}

	if Password != "" {
		cfg.Credentials.Password = Password
	}

	if HealthTimeout > 0 {
		cfg.HealthTimeout = HealthTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewClient creates a harness client for the configured target.
func NewClient() (*framework.Client, *framework.Config, error) {
	cfg, err := Config()
	if err != nil {
		return nil, nil, err
	}

	return framework.NewClientFromConfig(cfg), cfg, nil
}
