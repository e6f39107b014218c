package framework

import (
	"context"
	"fmt"
	"sync"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

// Fixture is the per-suite state: one client, at most one cached token and
// the entities to delete in teardown. Scenarios that must not share a session
// use separate fixtures.
type Fixture struct {
	Config *Config
	Client *Client

	mu      sync.Mutex
	token   string
	cleanup CleanupList
}

func NewFixture(cfg *Config) *Fixture {
	return &Fixture{
		Config: cfg,
		Client: NewClientFromConfig(cfg),
	}
}

// Token logs in on first use and returns the cached token afterwards.
func (f *Fixture) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token != "" {
		return f.token, nil
	}

	token := f.Client.Authenticate(ctx, nil)
	if token == "" {
		return "", ErrAuthenticationFailed
	}

	f.token = token

	return token, nil
}

// ForgetToken drops the cached token, e.g. after logging it out.
func (f *Fixture) ForgetToken() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = ""
}

// Projects returns project helpers using the fixture's token.
func (f *Fixture) Projects(ctx context.Context) (*ProjectsService, error) {
	token, err := f.Token(ctx)
	if err != nil {
		return nil, err
	}

	return f.Client.Projects(token), nil
}

// CreateProject creates a project and schedules its deletion at Cleanup.
func (f *Fixture) CreateProject(ctx context.Context, req v1.CreateProjectRequest) (*v1.Project, error) {
	projects, err := f.Projects(ctx)
	if err != nil {
		return nil, err
	}

	project, err := projects.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	f.TrackProject(project.ID)

	return project, nil
}

// TrackProject schedules deletion of a project created outside CreateProject.
func (f *Fixture) TrackProject(id string) {
	f.cleanup.Add(fmt.Sprintf("project %s", id), func(ctx context.Context) error {
		projects, err := f.Projects(ctx)
		if err != nil {
			return err
		}

		return projects.Delete(ctx, id)
	})
}

// Cleanup deletes tracked entities in reverse creation order.
func (f *Fixture) Cleanup(ctx context.Context) error {
	return f.cleanup.Run(ctx)
}

// Pending is the number of entities still scheduled for deletion.
func (f *Fixture) Pending() int {
	return f.cleanup.Len()
}
