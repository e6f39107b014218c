package framework

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/util"
)

// ProjectsService wraps the projects API with one token.
type ProjectsService struct {
	client *Client
	token  string
}

// Projects returns typed project helpers that authenticate with token.
// An empty token makes each call authenticate with the default credentials.
func (c *Client) Projects(token string) *ProjectsService {
	return &ProjectsService{client: c, token: token}
}

func (s *ProjectsService) request(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	return s.client.Request(ctx, endpoint, RequestOptions{Method: method, Body: body, Token: s.token})
}

func (s *ProjectsService) Create(ctx context.Context, req v1.CreateProjectRequest) (*v1.Project, error) {
	resp, err := s.request(ctx, http.MethodPost, "/projects", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, newStatusError("create project", resp)
	}

	var project v1.Project
	if err := resp.JSON(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (s *ProjectsService) Get(ctx context.Context, id string) (*v1.Project, error) {
	resp, err := s.request(ctx, http.MethodGet, projectPath(id), nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("get project "+id, resp)
	}

	var project v1.Project
	if err := resp.JSON(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (s *ProjectsService) List(ctx context.Context) ([]v1.Project, error) {
	resp, err := s.request(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("list projects", resp)
	}

	var projects []v1.Project
	if err := resp.JSON(&projects); err != nil {
		return nil, err
	}

	return projects, nil
}

func (s *ProjectsService) Delete(ctx context.Context, id string) error {
	resp, err := s.request(ctx, http.MethodDelete, projectPath(id), nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return newStatusError("delete project "+id, resp)
	}

	return nil
}

func (s *ProjectsService) AddRepository(ctx context.Context, projectID string, req v1.AddRepositoryRequest) (*v1.Repository, error) {
	resp, err := s.request(ctx, http.MethodPost, projectPath(projectID)+"/repositories", req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, newStatusError("add repository to project "+projectID, resp)
	}

	var repo v1.Repository
	if err := resp.JSON(&repo); err != nil {
		return nil, err
	}

	return &repo, nil
}

func (s *ProjectsService) ListOrgRepositories(ctx context.Context, org string) ([]v1.GitHubRepository, error) {
	resp, err := s.request(ctx, http.MethodGet, "/github/orgs/"+url.PathEscape(org)+"/repos", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("list repositories of "+org, resp)
	}

	var repos []v1.GitHubRepository
	if err := resp.JSON(&repos); err != nil {
		return nil, err
	}

	return repos, nil
}

// MatchesSubmitted reports whether every field submitted in req round-tripped
// into project unchanged. The returned string is a diff when it did not.
func MatchesSubmitted(req v1.CreateProjectRequest, project *v1.Project) (bool, string, error) {
	return util.JsonSubsetEqual(req, project)
}

// CheckTimestamps verifies created_at and updated_at are present RFC 3339 times.
func CheckTimestamps(project *v1.Project) error {
	for name, value := range map[string]string{"created_at": project.CreatedAt, "updated_at": project.UpdatedAt} {
		if value == "" {
			return fmt.Errorf("project %s has no %s", project.ID, name)
		}

		if _, err := util.ParseTime(value); err != nil {
			return fmt.Errorf("project %s has invalid %s %q: %w", project.ID, name, value, err)
		}
	}

	return nil
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}
