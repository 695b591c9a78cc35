package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Papers *PaperHandler
	PDF    *PDFHandler
	Auth   *AuthHandler
	Email  *EmailHandler
}

// RegisterRoutes mounts the API surface. adminOnly guards every mutating
// paper route; browse and stream stay public.
func RegisterRoutes(r *gin.Engine, h Handlers, adminOnly gin.HandlerFunc) {
	api := r.Group("/api")
	{
		api.GET("/papers", h.Papers.List)
		api.POST("/papers", adminOnly, h.Papers.Create)
		api.PUT("/papers/:id", adminOnly, h.Papers.Update)
		api.DELETE("/papers/:id", adminOnly, h.Papers.Delete)

		api.GET("/pdf", h.PDF.Stream)
		api.POST("/send-email", h.Email.Send)
		api.POST("/auth/login", h.Auth.Login)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
