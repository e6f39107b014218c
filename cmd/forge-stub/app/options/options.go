package options

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/config"
	"github.com/forge-qa/forge-e2e/internal/auth"
	"github.com/forge-qa/forge-e2e/internal/version"
	"github.com/forge-qa/forge-e2e/pkg/storage"
)

const apiPrefix = "/api"

// Options holds all configuration options for the stub server
type Options struct {
	Server  *ServerOptions
	Auth    *AuthOptions
	Storage *StorageOptions
}

// NewOptions creates new options with default values
func NewOptions() *Options {
	return &Options{
		Server:  NewServerOptions(),
		Auth:    NewAuthOptions(),
		Storage: NewStorageOptions(),
	}
}

// AddFlags adds flags for all options structs to the given FlagSet
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.Auth.AddFlags(fs)
	o.Storage.AddFlags(fs)
}

// Validate validates all options
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return errors.Wrap(err, "server options validation failed")
	}

	if err := o.Auth.Validate(); err != nil {
		return errors.Wrap(err, "auth options validation failed")
	}

	if err := o.Storage.Validate(); err != nil {
		return errors.Wrap(err, "storage options validation failed")
	}

	return nil
}

// Config converts options to stub configuration
func (o *Options) Config() (*config.StubConfig, error) {
	users := auth.NewUserStore()
	if _, err := users.Add(o.Auth.AdminEmail, o.Auth.AdminPassword, o.Auth.AdminName); err != nil {
		return nil, errors.Wrap(err, "failed to seed admin account")
	}

	issuer := auth.NewIssuer(o.Auth.JwtSecret, o.Auth.TokenTTL)

	gin.SetMode(o.Server.GinMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &config.StubConfig{
		Storage:   storage.New(storage.Options{Unavailable: o.Storage.Unavailable}),
		Auth:      auth.NewService(users, issuer),
		GinEngine: engine,

		ServerConfig: &config.ServerConfig{
			Port: o.Server.Port,
			Host: o.Server.Host,
		},

		APIPrefix:       apiPrefix,
		Version:         version.Get().AppVersion,
		OrgRepositories: o.Storage.OrgRepositories,
	}, nil
}
