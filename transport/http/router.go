package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doorkeep/doorkeep/service"
)

// SetupRouter builds the Gin router: the four auth flows, the protected
// API group behind the bearer gate, and a health probe.
func SetupRouter(authService *service.AuthService, refreshTTL time.Duration, secureCookie bool) *gin.Engine {
	router := gin.Default()

	handlers := NewAuthHandlers(authService, refreshTTL, secureCookie)

	auth := router.Group("/auth")
	{
		auth.POST("/create", handlers.Create)
		auth.POST("/authenticate", handlers.Authenticate)
		auth.POST("/token", handlers.Token)
		auth.POST("/clear", handlers.Clear)
	}

	api := router.Group("/api")
	api.Use(BearerAuth(authService))
	{
		api.GET("/me", handlers.Me)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return router
}
