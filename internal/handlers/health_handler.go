package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness only. It never calls the backend.
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}
