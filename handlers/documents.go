package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"erpchat/models"
)

const maxUploadSize = 10 << 20

// UploadDocumentHandler stores an uploaded file as a document
// @Summary      Upload a document
// @Description  Upload a reference document (table documentation, preamble, table index or page template)
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "File to upload"
// @Param        folder  formData  string  false  "Folder to file the document under"
// @Success      201     {object}  models.DocumentInfo
// @Failure      400     {object}  map[string]string  "No file provided"
// @Failure      500     {object}  map[string]string  "Failed to store file"
// @Router       /api/documents [post]
func (h *Handlers) UploadDocumentHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	folder := c.PostForm("folder")
	if folder == "" {
		folder = h.uploadFolder
	}

	ctx := c.Request.Context()
	id, err := h.docs.Create(ctx, models.Document{
		Name:     file.Filename,
		Folder:   folder,
		Contents: string(content),
	})
	if err != nil {
		h.logger.WithError(err).WithField("file", file.Filename).Error("failed to store document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	doc, err := h.docs.Load(ctx, id)
	if err != nil {
		c.JSON(http.StatusCreated, models.DocumentInfo{ID: id, Name: file.Filename, Folder: folder, Size: len(content)})
		return
	}
	h.logger.WithFields(logrus.Fields{"file": file.Filename, "id": id}).Info("document stored")
	c.JSON(http.StatusCreated, doc.Info())
}

// ListDocumentsHandler lists stored documents
// @Summary      List documents
// @Description  Lists stored documents, optionally only those whose name contains the filter
// @Tags         Documents
// @Produce      json
// @Param        name  query     string  false  "Name filter"
// @Success      200   {object}  map[string][]models.DocumentInfo
// @Failure      500   {object}  map[string]string  "Failed to load documents"
// @Router       /api/documents [get]
func (h *Handlers) ListDocumentsHandler(c *gin.Context) {
	infos, err := h.docs.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.logger.WithError(err).Error("failed to list documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": infos})
}
