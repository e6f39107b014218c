package app

import (
	"github.com/gin-gonic/gin"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/config"
	"github.com/forge-qa/forge-e2e/internal/middleware"
	"github.com/forge-qa/forge-e2e/internal/routes/auth"
	"github.com/forge-qa/forge-e2e/internal/routes/pages"
	"github.com/forge-qa/forge-e2e/internal/routes/projects"
	"github.com/forge-qa/forge-e2e/internal/routes/system"
)

type RouteFactory func(deps *RouteOptions)

type RouteOptions struct {
	Config *config.StubConfig
	// Group is the API group; Root is the engine's root group for pages.
	Group       *gin.RouterGroup
	Root        *gin.RouterGroup
	Middlewares []gin.HandlerFunc
}

type SystemRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *system.Dependencies)

func SystemRouteFactory(register SystemRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, systemDependencies(deps.Config))
	}
}

type AuthRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *auth.Dependencies)

func AuthRouteFactory(register AuthRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &auth.Dependencies{
			AuthClient: deps.Config.Auth,
		})
	}
}

type ProjectsRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *projects.Dependencies)

func ProjectsRouteFactory(register ProjectsRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &projects.Dependencies{
			Storage:         deps.Config.Storage,
			OrgRepositories: deps.Config.OrgRepositories,
		})
	}
}

type PagesRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *pages.Dependencies)

func PagesRouteFactory(register PagesRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Root, deps.Middlewares, pagesDependencies(deps.Config))
	}
}

func systemDependencies(c *config.StubConfig) *system.Dependencies {
	return &system.Dependencies{Version: c.Version}
}

func pagesDependencies(c *config.StubConfig) *pages.Dependencies {
	return &pages.Dependencies{
		AuthClient: c.Auth,
		Storage:    c.Storage,
		APIPrefix:  c.APIPrefix,
	}
}

type MiddlewareOptions struct {
	Config *config.StubConfig
}

type MiddlewareRegisterFunc func(deps middleware.Dependencies) gin.HandlerFunc

type MiddlewareFactory func(deps *MiddlewareOptions) gin.HandlerFunc

func CommonMiddlewareFactory(register MiddlewareRegisterFunc) MiddlewareFactory {
	return func(deps *MiddlewareOptions) gin.HandlerFunc {
		return register(middleware.Dependencies{
			Auth: deps.Config.Auth,
		})
	}
}

// RequestLoggerFactory logs every request the stub serves. Install it with WithGlobalMiddleware.
func RequestLoggerFactory(_ *MiddlewareOptions) gin.HandlerFunc {
	return middleware.RequestLogger()
}
