package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerHomeRoutes registers the root and health-check routes.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}

func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "openclerk ledger API v1"})
}
