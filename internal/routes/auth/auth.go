package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/auth"
	"github.com/forge-qa/forge-e2e/internal/middleware"
	"github.com/forge-qa/forge-e2e/internal/util"
)

// Dependencies defines the dependencies for auth handlers
type Dependencies struct {
	AuthClient auth.Client
}

// RegisterAuthRoutes registers login, current user and logout under group.
// middlewares guard everything except login.
func RegisterAuthRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	group.POST("/login", handleLogin(deps))

	protected := group.Group("")
	protected.Use(middlewares...)
	{
		protected.GET("/user", handleCurrentUser(deps))
		protected.POST("/logout", handleLogout(deps))
	}
}

func handleLogin(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req v1.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body"})
			return
		}

		result, err := deps.AuthClient.SignIn(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				klog.V(2).Infof("Rejected login for %s", req.Email)
				c.JSON(http.StatusUnauthorized, v1.ErrorResponse{Error: err.Error()})

				return
			}

			klog.Errorf("Failed to sign in %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, v1.ErrorResponse{Error: "failed to sign in"})

			return
		}

		c.JSON(http.StatusOK, v1.LoginResponse{
			Token:     result.Token,
			ExpiresAt: util.FormatTime(result.ExpiresAt),
		})
	}
}

func handleCurrentUser(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, v1.ErrorResponse{Error: "unauthenticated"})
			return
		}

		user, found := deps.AuthClient.Lookup(claims.UserID)
		if !found {
			user = &v1.User{ID: claims.UserID, Email: claims.Email}
		}

		c.JSON(http.StatusOK, user)
	}
}

func handleLogout(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := middleware.GetClaims(c); ok {
			deps.AuthClient.SignOut(claims)
		}

		c.Status(http.StatusNoContent)
	}
}
