package framework

import (
	"go.openly.dev/pointy"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/util"
)

// Credentials is an email/password pair. Neither field is validated here.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialOverride replaces only the fields that are set. A field set to
// the empty string is a valid override.
type CredentialOverride struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// DefaultCredentials is the account a freshly seeded Forge deployment accepts.
var DefaultCredentials = Credentials{
	Email:    v1.DefaultAdminEmail,
	Password: v1.DefaultAdminPassword,
}

// Override builds a full override of both fields.
func Override(email, password string) *CredentialOverride {
	return &CredentialOverride{Email: pointy.String(email), Password: pointy.String(password)}
}

// OverrideEmail builds an override of the email only.
func OverrideEmail(email string) *CredentialOverride {
	return &CredentialOverride{Email: pointy.String(email)}
}

// OverridePassword builds an override of the password only.
func OverridePassword(password string) *CredentialOverride {
	return &CredentialOverride{Password: pointy.String(password)}
}

// CredentialStore hands out the suite's default credentials, optionally
// overridden per call.
type CredentialStore struct {
	defaults Credentials
}

func NewCredentialStore(defaults Credentials) *CredentialStore {
	return &CredentialStore{defaults: defaults}
}

func (s *CredentialStore) Default() Credentials {
	return s.defaults
}

// Merge applies the override's set fields over the defaults.
func (s *CredentialStore) Merge(override *CredentialOverride) Credentials {
	if override == nil {
		return s.defaults
	}

	var merged Credentials
	if err := util.JsonMerge(s.defaults, override, &merged); err != nil {
		klog.Warningf("Failed to merge credential override: %v", err)

		merged = s.defaults
		if override.Email != nil {
			merged.Email = *override.Email
		}

		if override.Password != nil {
			merged.Password = *override.Password
		}
	}

	return merged
}
