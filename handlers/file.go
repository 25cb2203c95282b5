package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const fileIDRequiredText = "Error: File ID parameter is required. Use ?id=FILE_ID or ?fileid=FILE_ID"

// FileHandler returns the raw contents of a stored document
// @Summary      Read a document
// @Description  Returns the contents of the document with the given id as plain text. Errors are reported in the body.
// @Tags         Files
// @Produce      plain
// @Param        id      query     string  false  "Document id"
// @Param        fileid  query     string  false  "Document id (alternative name)"
// @Success      200     {string}  string  "Document contents or error text"
// @Router       /file [get]
func (h *Handlers) FileHandler(c *gin.Context) {
	fileID := param(c, "id")
	if fileID == "" {
		fileID = param(c, "fileid")
	}
	if fileID == "" {
		c.String(http.StatusOK, fileIDRequiredText)
		return
	}

	log := h.logger.WithField("file_id", fileID)
	doc, err := h.docs.Load(c.Request.Context(), fileID)
	if err != nil {
		log.WithError(err).Error("failed to load file")
		c.String(http.StatusOK, "Error loading file: %s", err.Error())
		return
	}

	log.WithField("size", len(doc.Contents)).Debug("file loaded")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Contents))
}
