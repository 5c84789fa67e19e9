package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports that the server is up.
// @Summary      Liveness Check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /healthz [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
