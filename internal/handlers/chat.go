package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nemora-backend/internal/ai"
	"nemora-backend/internal/models"
)

// ChatGateway is satisfied by *ai.Gateway.
type ChatGateway interface {
	Chat(ctx context.Context, message string, history []ai.Turn) (*ai.Result, error)
}

type ChatHandler struct {
	gateway ChatGateway
	logger  *zap.Logger
}

func NewChatHandler(gateway ChatGateway, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{gateway: gateway, logger: logger}
}

// Chat godoc
// @Summary     Ask the Nemora assistant
// @Description Forwards the message and up to six history entries to the configured AI providers, falling back in order.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       request body models.ChatRequest true "Message and optional history"
// @Success     200 {object} models.ChatResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("chat body not decodable", zap.Error(err))
	}

	message := req.MessageText()
	if message == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Message is required"})
		return
	}

	result, err := h.gateway.Chat(c.Request.Context(), message, ai.NormalizeHistory(req.History))
	if err != nil {
		h.logger.Warn("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: result.Reply, Provider: string(result.Provider)})
}
