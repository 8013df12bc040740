package handlers

import (
	"net/http"

	"mago-agent/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// AIHandler exposes the store assistant on an admin-only route.
type AIHandler struct {
	agent  *ai.Agent
	apiKey string
}

func NewAIHandler(agent *ai.Agent, apiKey string) *AIHandler {
	return &AIHandler{agent: agent, apiKey: apiKey}
}

// --- POST /api/ask ---
func (h *AIHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if h.apiKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing Gemini API Key"})
		return
	}

	response, err := h.agent.Run(c.Request.Context(), req.Message, h.apiKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
