package options

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFlags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("forge-stub", pflag.ContinueOnError)
	opts.AddFlags(fs)

	err := fs.Parse([]string{
		"--port", "9000",
		"--admin-email", "qa@forge.local",
		"--token-ttl", "5m",
		"--storage-unavailable",
		"--org-repositories", "web,api",
		"--gin-mode", "test",
	})
	require.NoError(t, err)
	require.NoError(t, opts.Validate())

	assert.Equal(t, 9000, opts.Server.Port)
	assert.Equal(t, "qa@forge.local", opts.Auth.AdminEmail)
	assert.Equal(t, 5*time.Minute, opts.Auth.TokenTTL)
	assert.True(t, opts.Storage.Unavailable)
	assert.Equal(t, []string{"web", "api"}, opts.Storage.OrgRepositories)

	c, err := opts.Config()
	require.NoError(t, err)
	assert.Equal(t, "/api", c.APIPrefix)
	assert.NotNil(t, c.GinEngine)

	_, err = c.Storage.ListProjects()
	assert.Error(t, err)

	_, err = c.Auth.SignIn("qa@forge.local", opts.Auth.AdminPassword)
	assert.NoError(t, err)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		errMsg string
	}{
		{name: "bad port", mutate: func(o *Options) { o.Server.Port = 70000 }, errMsg: "server options"},
		{name: "bad gin mode", mutate: func(o *Options) { o.Server.GinMode = "verbose" }, errMsg: "invalid gin mode"},
		{name: "empty secret", mutate: func(o *Options) { o.Auth.JwtSecret = "" }, errMsg: "jwt secret"},
		{name: "empty password", mutate: func(o *Options) { o.Auth.AdminPassword = "" }, errMsg: "admin email and password"},
		{name: "zero ttl", mutate: func(o *Options) { o.Auth.TokenTTL = 0 }, errMsg: "token ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)

			err := opts.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
