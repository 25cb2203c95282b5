package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"erpchat/config"
	"erpchat/models"
)

// ChatPageHandler renders the chat page with the conversation history embedded
// @Summary      Chat page
// @Description  Returns the chat HTML page with the conversation history and chat count filled in
// @Tags         Chat
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Router       /chat [get]
func (h *Handlers) ChatPageHandler(c *gin.Context) {
	ctx := c.Request.Context()

	messages, err := h.chat.History(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("failed to load chat history for page")
		messages = []models.ChatMessage{}
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	data, err := json.Marshal(messages)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode chat history")
		data = []byte("[]")
	}

	page := h.pageTemplate(c)
	page = strings.Replace(page, "{{messages}}", string(data), 1)
	page = strings.Replace(page, "{{numChats}}", strconv.Itoa(len(messages)), 1)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handlers) pageTemplate(c *gin.Context) string {
	if h.templateFileID == "" {
		return config.DefaultChatPageTemplate
	}
	doc, err := h.docs.Load(c.Request.Context(), h.templateFileID)
	if err != nil {
		h.logger.WithError(err).WithField("file_id", h.templateFileID).Warn("failed to load chat page template, using default")
		return config.DefaultChatPageTemplate
	}
	return doc.Contents
}

// ChatHandler answers chat input
// @Summary      Send chat input
// @Description  Runs a receive/approve command or answers the question with generated SQL. The answer is appended to the history.
// @Tags         Chat
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        user_input      formData  string  true   "Question or command, e.g. approve PO123"
// @Param        current_chatId  formData  string  false  "Conversation id"
// @Success      200             {object}  models.ChatResponse
// @Router       /chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.WithError(err).Warn("failed to bind chat request, answering as empty input")
		req = models.ChatRequest{}
	}
	if req.UserInput == "" {
		req.UserInput = c.Query("user_input")
	}
	if req.ChatID == "" {
		req.ChatID = c.Query("current_chatId")
	}

	env := h.chat.Respond(c.Request.Context(), req)
	c.JSON(http.StatusOK, models.ChatResponse{Message: []models.Envelope{env}})
}
