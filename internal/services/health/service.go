package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-chat/internal/shared/server/respond"
)

// Service reports liveness and the active chat model.
type Service struct {
	model string
}

// NewService constructs a new health service.
func NewService(model string) *Service {
	return &Service{model: model}
}

// Status returns the health payload.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": "ok", "model": s.model}
}

// Handle serves GET /health.
func (s *Service) Handle(c *gin.Context) {
	respond.JSON(c, http.StatusOK, s.Status())
}
