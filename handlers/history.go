package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"erpchat/models"
)

// HistoryHandler returns history entries
// @Summary      Chat history
// @Description  Returns the history entries of one conversation, or all entries when chatId is omitted
// @Tags         Chat
// @Produce      json
// @Param        chatId  query     string  false  "Conversation id"
// @Success      200     {object}  map[string][]models.ChatMessage
// @Failure      500     {object}  map[string]string  "Failed to load history"
// @Router       /api/history [get]
func (h *Handlers) HistoryHandler(c *gin.Context) {
	entries, err := h.chat.History(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load chat history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	chatID := c.Query("chatId")
	out := make([]models.ChatMessage, 0, len(entries))
	for _, e := range entries {
		if chatID == "" || e.ChatID == chatID {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
