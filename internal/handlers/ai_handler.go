package handlers

import (
	"net/http"

	"go-clinic-panel/internal/ai"
	"go-clinic-panel/internal/config"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// AskAI answers a question about the clinic's numbers from the cached lists.
func AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if geminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	response, err := ai.RunAgent(c.Request.Context(), req.Message, geminiAPIKey, app)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "AskAI", "", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant failed to answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
