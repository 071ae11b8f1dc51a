package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports process liveness plus the current storage mode.
func HealthCheck(probe func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := "persistent"
		if !probe() {
			mode = "memory-fallback"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"storage": mode,
		})
	}
}
