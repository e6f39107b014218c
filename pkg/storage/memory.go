package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/util"
)

type MemoryStorage struct {
	mu sync.RWMutex

	available    bool
	projects     map[string]*v1.Project
	projectOrder []string
	repositories map[string][]v1.Repository

	now func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		available:    true,
		projects:     map[string]*v1.Project{},
		repositories: map[string][]v1.Repository{},
		now:          time.Now,
	}
}

// SetAvailable toggles the simulated backing database.
func (s *MemoryStorage) SetAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.available = available
}

func (s *MemoryStorage) ListProjects() ([]v1.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available {
		return nil, ErrUnavailable
	}

	projects := make([]v1.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		projects = append(projects, *s.projects[id])
	}

	return projects, nil
}

func (s *MemoryStorage) GetProject(id string) (*v1.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available {
		return nil, ErrUnavailable
	}

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrResourceNotFound)
	}

	project := *p

	return &project, nil
}

func (s *MemoryStorage) CreateProject(data *v1.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrUnavailable
	}

	now := util.FormatTime(s.now())
	data.ID = uuid.NewString()
	data.CreatedAt = now
	data.UpdatedAt = now

	project := *data
	s.projects[data.ID] = &project
	s.projectOrder = append(s.projectOrder, data.ID)

	return nil
}

func (s *MemoryStorage) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrUnavailable
	}

	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrResourceNotFound)
	}

	delete(s.projects, id)
	delete(s.repositories, id)

	for i, pid := range s.projectOrder {
		if pid == id {
			s.projectOrder = append(s.projectOrder[:i], s.projectOrder[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStorage) ListRepositories(projectID string) ([]v1.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available {
		return nil, ErrUnavailable
	}

	if _, ok := s.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrResourceNotFound)
	}

	return append([]v1.Repository(nil), s.repositories[projectID]...), nil
}

func (s *MemoryStorage) CreateRepository(data *v1.Repository) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return ErrUnavailable
	}

	if _, ok := s.projects[data.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", data.ProjectID, ErrResourceNotFound)
	}

	data.ID = uuid.NewString()
	data.CreatedAt = util.FormatTime(s.now())

	s.repositories[data.ProjectID] = append(s.repositories[data.ProjectID], *data)

	return nil
}
