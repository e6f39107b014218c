package config

import (
	"github.com/gin-gonic/gin"

	"github.com/forge-qa/forge-e2e/internal/auth"
	"github.com/forge-qa/forge-e2e/pkg/storage"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
	Host string
}

// StubConfig holds the stub target configuration
type StubConfig struct {
	// Core dependencies
	Storage   *storage.MemoryStorage
	Auth      *auth.Service
	GinEngine *gin.Engine

	ServerConfig *ServerConfig

	// APIPrefix is the path the JSON API is mounted under.
	APIPrefix string
	Version   string
	// OrgRepositories is the repository list served for every GitHub organization.
	OrgRepositories []string
}
