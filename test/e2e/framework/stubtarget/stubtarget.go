// Package stubtarget runs the in-memory Forge stub inside the test process.
package stubtarget

import (
	"fmt"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app"
	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/config"
	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/options"
)

// Options adjusts the stub before it starts.
type Options struct {
	AdminEmail         string
	AdminPassword      string
	StorageUnavailable bool
}

// Target is a running stub.
type Target struct {
	URL    string
	APIURL string

	config *config.StubConfig
	server *httptest.Server
}

// Start builds the stub application and serves it on a loopback port.
func Start(o Options) (*Target, error) {
	opts := options.NewOptions()
	opts.Server.GinMode = gin.TestMode
	opts.Storage.Unavailable = o.StorageUnavailable

	if o.AdminEmail != "" {
		opts.Auth.AdminEmail = o.AdminEmail
	}

	if o.AdminPassword != "" {
		opts.Auth.AdminPassword = o.AdminPassword
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stub options: %w", err)
	}

	c, err := opts.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to configure stub: %w", err)
	}

	stub, err := app.NewBuilder().
		WithConfig(c).
		WithGlobalMiddleware(app.RequestLoggerFactory).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build stub: %w", err)
	}

	server := httptest.NewServer(stub.Handler())

	return &Target{
		URL:    server.URL,
		APIURL: server.URL + c.APIPrefix,
		config: c,
		server: server,
	}, nil
}

// SetStorageAvailable toggles the stub's simulated database.
func (t *Target) SetStorageAvailable(available bool) {
	t.config.Storage.SetAvailable(available)
}

func (t *Target) Close() {
	if t != nil && t.server != nil {
		t.server.Close()
	}
}
