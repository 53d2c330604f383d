package api

import (
	"github.com/gin-gonic/gin"

	"github.com/docqa/docqa/internal/api/auth"
	"github.com/docqa/docqa/internal/api/chats"
	"github.com/docqa/docqa/internal/api/documents"
	"github.com/docqa/docqa/internal/api/middleware"
	"github.com/docqa/docqa/internal/api/queries"
	"github.com/docqa/docqa/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	ingestService *service.IngestService,
	chatService *service.ChatService,
	queryService *service.QueryService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authedAuthGroup := v1.Group("/auth")
	authedAuthGroup.Use(middleware.Auth(authService))
	auth.NewHandler(authService).RegisterRoutes(authGroup, authedAuthGroup)

	documentsGroup := v1.Group("/documents")
	documentsGroup.Use(middleware.Auth(authService))
	documents.NewHandler(ingestService).RegisterRoutes(documentsGroup)

	chatsGroup := v1.Group("/chats")
	chatsGroup.Use(middleware.Auth(authService))
	chats.NewHandler(chatService).RegisterRoutes(chatsGroup)

	queriesGroup := v1.Group("/queries")
	queriesGroup.Use(middleware.Auth(authService))
	queries.NewHandler(queryService).RegisterRoutes(queriesGroup)

	return r
}
