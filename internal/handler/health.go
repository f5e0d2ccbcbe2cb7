package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/library-api/backend/internal/model"
)

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func Health(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, model.HealthResponse{
			Status:    "OK",
			Message:   "Library API is running",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version,
		})
	}
}

// Root lists the mounted endpoint groups.
func Root(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Library Management API!",
			"version": version,
			"endpoints": gin.H{
				"auth":       "/api/v1/auth",
				"users":      "/api/v1/users",
				"books":      "/api/v1/books",
				"categories": "/api/v1/categories",
				"health":     "/health",
			},
		})
	}
}
