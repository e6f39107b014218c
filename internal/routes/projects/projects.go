package projects

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/pkg/storage"
)

// DefaultOrgRepositories is the repository list served for every GitHub organization.
var DefaultOrgRepositories = []string{"forge-frontend", "forge-backend", "forge-infrastructure"}

// Dependencies defines the dependencies for project handlers
type Dependencies struct {
	Storage storage.Storage
	// OrgRepositories overrides DefaultOrgRepositories when non-empty.
	OrgRepositories []string
}

// RegisterProjectsRoutes registers the projects and GitHub organization routes.
func RegisterProjectsRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	projectsGroup := group.Group("/projects")
	projectsGroup.Use(middlewares...)
	{
		projectsGroup.GET("", handleListProjects(deps))
		projectsGroup.POST("", handleCreateProject(deps))
		projectsGroup.GET("/:id", handleGetProject(deps))
		projectsGroup.DELETE("/:id", handleDeleteProject(deps))
		projectsGroup.GET("/:id/repositories", handleListRepositories(deps))
		projectsGroup.POST("/:id/repositories", handleAddRepository(deps))
	}

	githubGroup := group.Group("/github")
	githubGroup.Use(middlewares...)
	githubGroup.GET("/orgs/:org/repos", handleListOrgRepositories(deps))
}

func handleListProjects(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := deps.Storage.ListProjects()
		if err != nil {
			respondStorageError(c, err)
			return
		}

		c.JSON(http.StatusOK, projects)
	}
}

func handleCreateProject(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req v1.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body: " + err.Error()})
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "name is required"})
			return
		}

		project := &v1.Project{
			Name:        req.Name,
			Description: req.Description,
			GithubOrg:   req.GithubOrg,
		}

		if err := deps.Storage.CreateProject(project); err != nil {
			respondStorageError(c, err)
			return
		}

		klog.V(2).Infof("Created project %s (%s)", project.ID, project.Name)
		c.JSON(http.StatusCreated, project)
	}
}

func handleGetProject(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := deps.Storage.GetProject(c.Param("id"))
		if err != nil {
			respondStorageError(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func handleDeleteProject(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := deps.Storage.DeleteProject(id); err != nil {
			respondStorageError(c, err)
			return
		}

		klog.V(2).Infof("Deleted project %s", id)
		c.Status(http.StatusNoContent)
	}
}

func handleListRepositories(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		repos, err := deps.Storage.ListRepositories(c.Param("id"))
		if err != nil {
			respondStorageError(c, err)
			return
		}

		c.JSON(http.StatusOK, repos)
	}
}

func handleAddRepository(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req v1.AddRepositoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "name and url are required"})
			return
		}

		repoType := req.RepoType
		switch repoType {
		case "":
			repoType = v1.RepositoryTypeFrontend
		case v1.RepositoryTypeFrontend, v1.RepositoryTypeBackend, v1.RepositoryTypeInfra:
		default:
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: fmt.Sprintf("unsupported repo_type %q", repoType)})
			return
		}

		repo := &v1.Repository{
			ProjectID: c.Param("id"),
			Name:      req.Name,
			URL:       req.URL,
			RepoType:  repoType,
		}

		if err := deps.Storage.CreateRepository(repo); err != nil {
			respondStorageError(c, err)
			return
		}

		c.JSON(http.StatusCreated, repo)
	}
}

func handleListOrgRepositories(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		org := c.Param("org")

		names := deps.OrgRepositories
		if len(names) == 0 {
			names = DefaultOrgRepositories
		}

		repos := make([]v1.GitHubRepository, 0, len(names))
		for _, name := range names {
			repos = append(repos, v1.GitHubRepository{
				Name:     name,
				FullName: org + "/" + name,
				CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", org, name),
				HTMLURL:  fmt.Sprintf("https://github.com/%s/%s", org, name),
			})
		}

		c.JSON(http.StatusOK, repos)
	}
}

func respondStorageError(c *gin.Context, err error) {
	switch {
	case storage.IsNotFound(err):
		c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: err.Error()})
	case storage.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, v1.ErrorResponse{Error: "database unavailable"})
	default:
		klog.Errorf("Storage operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, v1.ErrorResponse{Error: err.Error()})
	}
}
