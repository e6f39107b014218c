package system

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

// Dependencies defines the dependencies for system handlers
type Dependencies struct {
	// Version is reported by the health endpoint
	Version string
}

// RegisterSystemRoutes registers the unauthenticated health endpoint.
func RegisterSystemRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	handlers := append(append([]gin.HandlerFunc{}, middlewares...), HandleHealth(deps))
	group.GET("/health", handlers...)
}

// HandleHealth answers 200 {"status":"ok"} while the process serves. A storage
// outage shows up as 503 on the data routes, not here.
func HandleHealth(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, v1.HealthStatus{
			Status:  v1.HealthStatusOK,
			Version: deps.Version,
		})
	}
}
