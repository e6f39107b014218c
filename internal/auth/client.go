package auth

import (
	"time"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

// Client defines the authentication operations the stub routes depend on.
type Client interface {
	// SignIn checks the credentials and issues a session token for the account.
	SignIn(email, password string) (*SignInResult, error)
	// Verify parses a token and rejects it when expired, malformed or revoked.
	Verify(token string) (*Claims, error)
	// SignOut revokes the token identified by claims until it would have expired.
	SignOut(claims *Claims)
	// Lookup returns the account for a verified subject.
	Lookup(userID string) (*v1.User, bool)
}

type SignInResult struct {
	User      *v1.User
	Token     string
	ExpiresAt time.Time
}

// Service is the in-memory Client backed by a UserStore and an Issuer.
type Service struct {
	users  *UserStore
	issuer *Issuer
}

func NewService(users *UserStore, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

func (s *Service) SignIn(email, password string) (*SignInResult, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &SignInResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Verify(token string) (*Claims, error) {
	return s.issuer.Parse(token)
}

func (s *Service) SignOut(claims *Claims) {
	s.issuer.Revoke(claims)
}

func (s *Service) Lookup(userID string) (*v1.User, bool) {
	return s.users.Get(userID)
}
