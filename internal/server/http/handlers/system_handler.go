package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
)

// SystemHandler serves liveness and demo routes.
type SystemHandler struct {
	environment string
	now         func() time.Time
}

// NewSystemHandler creates SystemHandler reporting environment.
func NewSystemHandler(environment string) *SystemHandler {
	return &SystemHandler{environment: environment, now: time.Now}
}

// Health handles GET /health.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		Timestamp:   h.now().UnixMilli(),
		Environment: h.environment,
	})
}

// Hello handles GET /api/hello.
func (h *SystemHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HelloResponse{Message: "Hello from IndieBook!", Timestamp: h.now().UnixMilli()})
}

// Echo handles POST /api/echo.
func (h *SystemHandler) Echo(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	c.JSON(http.StatusOK, dto.EchoResponse{Received: body, Timestamp: h.now().UnixMilli()})
}
