package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-chat/internal/shared/server/middleware"
	"resume-chat/internal/shared/server/respond"
	"resume-chat/internal/shared/telemetry"
	"resume-chat/internal/shared/util"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the chat route. The background route exists only
// in debug mode.
func (h *Handler) RegisterRoutes(r gin.IRoutes, debug bool) {
	r.POST("/chat", h.chat)
	if debug {
		r.POST("/generate_background", h.generateBackground)
	}
}

type chatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

type backgroundRequest struct {
	Message string `json:"message"`
	Prompt  string `json:"prompt"`
}

func (h *Handler) chat(c *gin.Context) {
	ctx := c.Request.Context()
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logChatError(c, err, "unknown")
		c.JSON(http.StatusInternalServerError, gin.H{"response": Apology})
		return
	}

	reply, err := h.Svc.Ask(ctx, Question{
		Message:   req.Message,
		History:   req.History,
		ClientKey: util.HashClientKey(c.ClientIP()),
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		logChatError(c, err, req.Message)
		c.JSON(http.StatusInternalServerError, gin.H{"response": Apology})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.OK(c, gin.H{"response": reply.Response})
		return
	}
	respond.OK(c, reply)
}

func (h *Handler) generateBackground(c *gin.Context) {
	var req backgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}

	bg, err := h.Svc.GenerateBackground(c.Request.Context(), req.Message, req.Prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "message or prompt is required", []map[string]string{
				{"field": "message", "issue": "required"},
			})
			return
		}
		respond.Error(c, http.StatusBadGateway, "image_failed", "failed to generate background", nil)
		return
	}
	if bg == nil {
		respond.OK(c, gin.H{"image_url": nil})
		return
	}
	respond.OK(c, gin.H{
		"image_url": bg.DataURI,
		"prompt":    bg.Prompt,
	})
}

func logChatError(c *gin.Context, err error, question string) {
	telemetry.Error(c.Request.Context(), "chat_error",
		zap.String("event_type", "chat_error"),
		zap.String("error_message", err.Error()),
		zap.String("user_question", question),
	)
}
