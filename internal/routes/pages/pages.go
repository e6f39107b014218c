package pages

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/auth"
	"github.com/forge-qa/forge-e2e/internal/middleware"
	"github.com/forge-qa/forge-e2e/internal/util"
	"github.com/forge-qa/forge-e2e/pkg/storage"
)

//go:embed web
var webFS embed.FS

const (
	layoutTemplate = "templates/layout.html"
	AssetsPrefix   = "/assets"
)

// Dependencies defines the dependencies for page handlers
type Dependencies struct {
	AuthClient auth.Client
	Storage    storage.Storage
	// APIPrefix marks unmatched paths that get a JSON 404 instead of the 404 page.
	APIPrefix string
}

type loginView struct {
	Title string
	Email string
	Error string
}

type dashboardView struct {
	Title        string
	Heading      string
	User         *v1.User
	ProjectCount int
}

type projectsView struct {
	Title    string
	Projects []v1.Project
	Error    string
}

type notFoundView struct {
	Title   string
	Heading string
	Message string
}

// RegisterPagesRoutes registers the browser-facing pages. middlewares guard the
// authenticated pages and are expected to redirect to /login.
func RegisterPagesRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	group.GET("/login", handleLoginPage())
	group.POST("/login", handleLoginSubmit(deps))
	group.POST("/logout", handleLogout(deps))

	protected := group.Group("")
	protected.Use(middlewares...)
	{
		protected.GET("/", handleDashboard(deps))
		protected.GET("/projects", handleProjects(deps))
	}
}

// Assets serves the embedded stylesheet under AssetsPrefix.
func Assets() gin.HandlerFunc {
	sub, err := fs.Sub(webFS, "web/assets")
	if err != nil {
		panic(err)
	}

	return static.Serve(AssetsPrefix, assetFileSystem{http.FS(sub)})
}

// HandleNotFound renders the 404 page, or a JSON error for API paths.
func HandleNotFound(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.APIPrefix != "" && strings.HasPrefix(c.Request.URL.Path, deps.APIPrefix+"/") {
			c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: "not found"})
			return
		}

		render(c, http.StatusNotFound, "templates/notfound.html", notFoundView{
			Title:   "Not Found",
			Heading: v1.NotFoundHeading,
			Message: v1.NotFoundMessage,
		})
	}
}

func handleLoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "templates/login.html", loginView{Title: "Sign In"})
	}
}

func handleLoginSubmit(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")

		if email == "" || password == "" {
			render(c, http.StatusBadRequest, "templates/login.html", loginView{
				Title: "Sign In",
				Email: email,
				Error: "Email and password are required",
			})

			return
		}

		result, err := deps.AuthClient.SignIn(email, password)
		if err != nil {
			klog.V(2).Infof("Rejected page login for %s: %v", email, err)
			render(c, http.StatusUnauthorized, "templates/login.html", loginView{
				Title: "Sign In",
				Email: email,
				Error: "Invalid email or password",
			})

			return
		}

		maxAge := int(time.Until(result.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(v1.SessionCookieName, result.Token, maxAge, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func handleLogout(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(v1.SessionCookieName); err == nil && token != "" {
			if claims, err := deps.AuthClient.Verify(token); err == nil {
				deps.AuthClient.SignOut(claims)
			}
		}

		c.SetCookie(v1.SessionCookieName, "", -1, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, "/login")
	}
}

func handleDashboard(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		user, found := deps.AuthClient.Lookup(claims.UserID)
		if !found {
			user = &v1.User{ID: claims.UserID, Email: claims.Email}
		}

		view := dashboardView{
			Title:   "Dashboard",
			Heading: v1.DashboardHeading,
			User:    user,
		}

		if projects, err := deps.Storage.ListProjects(); err == nil {
			view.ProjectCount = len(projects)
		}

		render(c, http.StatusOK, "templates/dashboard.html", view)
	}
}

func handleProjects(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := projectsView{Title: "Projects"}

		projects, err := deps.Storage.ListProjects()
		if err != nil {
			view.Error = "Projects are unavailable right now"
		} else {
			view.Projects = projects
		}

		render(c, http.StatusOK, "templates/projects.html", view)
	}
}

func render(c *gin.Context, status int, page string, data any) {
	out, err := renderPage(page, data)
	if err != nil {
		klog.Errorf("Failed to render %s: %v", page, err)
		c.String(http.StatusInternalServerError, "internal error")

		return
	}

	c.Data(status, "text/html; charset=utf-8", out)
}

func renderPage(page string, data any) ([]byte, error) {
	layout, err := webFS.ReadFile("web/" + layoutTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read layout")
	}

	content, err := webFS.ReadFile("web/" + page)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read page %s", page)
	}

	return util.RenderHTML("layout", data, string(layout), string(content))
}

// assetFileSystem only reports regular files under the served prefix, so
// directory listings are never exposed.
type assetFileSystem struct {
	http.FileSystem
}

func (a assetFileSystem) Exists(prefix string, path string) bool {
	name := strings.TrimPrefix(path, prefix)
	if name == path || name == "" {
		return false
	}

	f, err := a.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()

	return err == nil && !info.IsDir()
}
