package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/config"
	"github.com/forge-qa/forge-e2e/internal/middleware"
	"github.com/forge-qa/forge-e2e/internal/routes/auth"
	"github.com/forge-qa/forge-e2e/internal/routes/pages"
	"github.com/forge-qa/forge-e2e/internal/routes/projects"
	"github.com/forge-qa/forge-e2e/internal/routes/system"
)

// Builder is the stub application builder
type Builder struct {
	routeInits             map[string]RouteFactory
	middlewareInits        map[string]MiddlewareFactory
	routesToMiddlewares    map[string][]string
	config                 *config.StubConfig
	globalMiddlewaresInits []MiddlewareFactory
}

// NewBuilder creates a new stub builder
func NewBuilder() *Builder {
	b := &Builder{
		middlewareInits:        make(map[string]MiddlewareFactory),
		routeInits:             make(map[string]RouteFactory),
		routesToMiddlewares:    make(map[string][]string),
		globalMiddlewaresInits: []MiddlewareFactory{},
	}

	defaultRouteInits := map[string]RouteFactory{
		"system":   SystemRouteFactory(system.RegisterSystemRoutes),
		"auth":     AuthRouteFactory(auth.RegisterAuthRoutes),
		"projects": ProjectsRouteFactory(projects.RegisterProjectsRoutes),
		"pages":    PagesRouteFactory(pages.RegisterPagesRoutes),
	}

	for name, routeInit := range defaultRouteInits {
		b.routeInits[name] = routeInit
	}

	defaultMiddlewareInits := map[string]MiddlewareFactory{
		"auth":    CommonMiddlewareFactory(middleware.Auth),
		"session": CommonMiddlewareFactory(middleware.Session),
	}

	for name, middlewareInit := range defaultMiddlewareInits {
		b.middlewareInits[name] = middlewareInit
	}

	defaultRoutesToMiddlewares := map[string][]string{
		"auth":     {"auth"},
		"projects": {"auth"},
		"pages":    {"session"},
	}

	for route, middlewares := range defaultRoutesToMiddlewares {
		b.routesToMiddlewares[route] = middlewares
	}

	return b
}

// WithConfig sets the configuration for the builder
func (b *Builder) WithConfig(c *config.StubConfig) *Builder {
	b.config = c
	return b
}

// WithRoute registers a route
func (b *Builder) WithRoute(name string, routeInit RouteFactory) *Builder {
	b.routeInits[name] = routeInit
	return b
}

// WithMiddleware registers a middleware to routes
func (b *Builder) WithMiddleware(name string, middlewareInit MiddlewareFactory, routes []string) *Builder {
	if _, exists := b.middlewareInits[name]; !exists {
		b.middlewareInits[name] = middlewareInit
	}

	for _, route := range routes {
		exists := false

		for _, mwName := range b.routesToMiddlewares[route] {
			if mwName == name {
				exists = true
				break
			}
		}

		if !exists {
			b.routesToMiddlewares[route] = append(b.routesToMiddlewares[route], name)
		}
	}

	return b
}

// WithGlobalMiddleware adds a global middleware that applies to all routes
func (b *Builder) WithGlobalMiddleware(middlewareInit MiddlewareFactory) *Builder {
	b.globalMiddlewaresInits = append(b.globalMiddlewaresInits, middlewareInit)
	return b
}

// Build creates and initializes all components
func (b *Builder) Build() (*App, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if b.config.GinEngine == nil {
		return nil, fmt.Errorf("gin engine is required")
	}

	middlewareOptions := &MiddlewareOptions{
		Config: b.config,
	}

	engine := b.config.GinEngine

	for _, mw := range b.globalMiddlewaresInits {
		engine.Use(mw(middlewareOptions))
	}

	middlewareHandleMap := make(map[string]gin.HandlerFunc)
	for name, factory := range b.middlewareInits {
		middlewareHandleMap[name] = factory(middlewareOptions)
	}

	engine.Use(pages.Assets())

	// health is reachable both at the root and under the API prefix
	engine.GET("/health", system.HandleHealth(systemDependencies(b.config)))

	api := engine.RouterGroup.Group(b.config.APIPrefix)

	for name, factory := range b.routeInits {
		middlewares := []gin.HandlerFunc{}

		for _, mwName := range b.routesToMiddlewares[name] {
			mw, exists := middlewareHandleMap[mwName]
			if !exists {
				return nil, fmt.Errorf("middleware %s not found for route %s", mwName, name)
			}

			middlewares = append(middlewares, mw)
		}

		factory(&RouteOptions{
			Config:      b.config,
			Group:       api,
			Root:        &engine.RouterGroup,
			Middlewares: middlewares,
		})
	}

	engine.NoRoute(pages.HandleNotFound(pagesDependencies(b.config)))

	return NewApp(b.config), nil
}
