package v1

// Project is a Forge project as returned by the projects API.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GithubOrg   string `json:"github_org,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// CreateProjectRequest is the body of POST /projects. Name is the only required field.
type CreateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	GithubOrg   string `json:"github_org,omitempty"`
}

type RepositoryType string

const (
	RepositoryTypeFrontend RepositoryType = "frontend"
	RepositoryTypeBackend  RepositoryType = "backend"
	RepositoryTypeInfra    RepositoryType = "infrastructure"
)

// Repository is a source repository attached to a project.
type Repository struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	RepoType  RepositoryType `json:"repo_type,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
}

type AddRepositoryRequest struct {
	Name     string         `json:"name" binding:"required"`
	URL      string         `json:"url" binding:"required"`
	RepoType RepositoryType `json:"repo_type,omitempty"`
}

// GitHubRepository is an entry of GET /github/orgs/:org/repos.
type GitHubRepository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	HTMLURL  string `json:"html_url"`
}
