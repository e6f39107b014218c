package storage

import (
	"errors"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

const (
	PROJECT_TABLE    = "projects"
	REPOSITORY_TABLE = "repositories"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUnavailable is returned by every call while the backing store is marked down.
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage persists the entities the stub projects API serves.
type Storage interface {
	ListProjects() ([]v1.Project, error)
	GetProject(id string) (*v1.Project, error)
	// CreateProject assigns ID and timestamps on data.
	CreateProject(data *v1.Project) error
	// DeleteProject removes the project and its repositories.
	DeleteProject(id string) error

	ListRepositories(projectID string) ([]v1.Repository, error)
	// CreateRepository assigns ID and timestamp on data; the project must exist.
	CreateRepository(data *v1.Repository) error
}

type Options struct {
	// Unavailable starts the store in the down state, so every call fails with ErrUnavailable.
	Unavailable bool
}

func New(o Options) *MemoryStorage {
	s := NewMemoryStorage()
	s.SetAvailable(!o.Unavailable)

	return s
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
