package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

// AuthOptions holds the seeded account and token settings
type AuthOptions struct {
	JwtSecret     string
	AdminEmail    string
	AdminPassword string
	AdminName     string
	TokenTTL      time.Duration
}

// NewAuthOptions creates new auth options with default values
func NewAuthOptions() *AuthOptions {
	return &AuthOptions{
		JwtSecret:     "forge-stub-secret",
		AdminEmail:    v1.DefaultAdminEmail,
		AdminPassword: v1.DefaultAdminPassword,
		AdminName:     "Forge Admin",
		TokenTTL:      time.Hour,
	}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.JwtSecret, "jwt-secret", o.JwtSecret, "secret used to sign session tokens")
	fs.StringVar(&o.AdminEmail, "admin-email", o.AdminEmail, "email of the seeded account")
	fs.StringVar(&o.AdminPassword, "admin-password", o.AdminPassword, "password of the seeded account")
	fs.StringVar(&o.AdminName, "admin-name", o.AdminName, "display name of the seeded account")
	fs.DurationVar(&o.TokenTTL, "token-ttl", o.TokenTTL, "lifetime of issued session tokens")
}

// Validate validates auth options
func (o *AuthOptions) Validate() error {
	if o.JwtSecret == "" {
		return errors.New("jwt secret is required")
	}

	if o.AdminEmail == "" || o.AdminPassword == "" {
		return errors.New("admin email and password are required")
	}

	if o.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}

	return nil
}
