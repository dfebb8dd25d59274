package handlers

import (
	"net/http"

	"admissions/services/assistant"
	"admissions/services/intake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageRequest is one inbound conversation event. Exactly one of Text and
// Callback should be set; Callback carries a choice token previously issued
// in a reply.
type MessageRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Text     string `json:"text"`
	Callback string `json:"callback"`
}

// MessageHandler exposes the assistant over HTTP.
type MessageHandler struct {
	Assistant assistant.Service
}

func NewMessageHandler(svc assistant.Service) *MessageHandler {
	return &MessageHandler{Assistant: svc}
}

// HandleMessage routes one event through the assistant and returns the reply
// with its optional inline choices.
func (h *MessageHandler) HandleMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Text == "" && req.Callback == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either text or callback is required"})
		return
	}

	reply, err := h.Assistant.Respond(c.Request.Context(), req.UserID, intake.Event{
		Text:     req.Text,
		Callback: req.Callback,
	})
	if err != nil {
		zap.L().Error("assistant respond failed",
			zap.String("userId", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}
	c.JSON(http.StatusOK, reply)
}
