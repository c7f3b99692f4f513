package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nemora-backend/internal/models"
)

// HealthHandler godoc
// @Summary     Health check
// @Description Returns the health status of the API
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		OK: true,
	}
	c.JSON(http.StatusOK, response)
}
