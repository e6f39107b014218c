package auth

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type account struct {
	user         v1.User
	passwordHash []byte
}

// UserStore holds the accounts the stub accepts, keyed by lower-cased email.
type UserStore struct {
	mu       sync.RWMutex
	byEmail  map[string]*account
	byUserID map[string]*account
}

func NewUserStore() *UserStore {
	return &UserStore{
		byEmail:  map[string]*account{},
		byUserID: map[string]*account{},
	}
}

// Add registers an account and returns it. A second Add for the same email replaces the first.
func (s *UserStore) Add(email, password, name string) (*v1.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	acc := &account{
		user: v1.User{
			ID:    uuid.NewString(),
			Email: email,
			Name:  name,
		},
		passwordHash: hash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if prev, ok := s.byEmail[key]; ok {
		delete(s.byUserID, prev.user.ID)
	}

	s.byEmail[key] = acc
	s.byUserID[acc.user.ID] = acc

	user := acc.user

	return &user, nil
}

// Authenticate returns the account for email when password matches.
func (s *UserStore) Authenticate(email, password string) (*v1.User, error) {
	s.mu.RLock()
	acc, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()

	if !ok || password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := acc.user

	return &user, nil
}

func (s *UserStore) Get(userID string) (*v1.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byUserID[userID]
	if !ok {
		return nil, false
	}

	user := acc.user

	return &user, true
}
