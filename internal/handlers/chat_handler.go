package handlers

import (
	"net/http"

	"collections-console/internal/models"
	"collections-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatRequest struct {
	CustNumber string               `json:"custnumber" binding:"required"`
	Message    string               `json:"message" binding:"required"`
	History    []models.ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler serves assistant conversations
type ChatHandler struct {
	chat ChatServiceInterface
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Respond handles POST /api/chat
func (h *ChatHandler) Respond(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "custnumber and message are required"})
		return
	}

	reply, err := h.chat.Respond(c.Request.Context(), req.CustNumber, req.Message, req.History)
	if err != nil {
		logger.Error("Assistant turn failed",
			zap.String("custnumber", req.CustNumber),
			zap.String("agent_id", c.GetString("agentID")),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
