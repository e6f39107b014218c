package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/auth"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

type Dependencies struct {
	Auth auth.Client
	// LoginPath is where Session redirects unauthenticated page requests.
	LoginPath string
}

// Auth guards API routes. The token comes from the Authorization header,
// falling back to the session cookie set by the login page.
func Auth(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(deps, c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, v1.ErrorResponse{Error: err.Error()})
			c.Abort()

			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// Session guards HTML pages and redirects to the login page instead of failing.
func Session(deps Dependencies) gin.HandlerFunc {
	loginPath := deps.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(c *gin.Context) {
		claims, err := authenticate(deps, c)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()

			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func authenticate(deps Dependencies, c *gin.Context) (*auth.Claims, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := deps.Auth.Verify(token)
	if err != nil {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", errors.New("invalid Authorization header format")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return "", errors.New("token is required")
		}

		return token, nil
	}

	if cookie, err := c.Cookie(v1.SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", errors.New("Authorization header is required")
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(claimsKey, claims)
}

func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}

	claims, ok := v.(*auth.Claims)

	return claims, ok
}
