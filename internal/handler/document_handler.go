package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/replyforge/replyforge/internal/pkg/response"
	"github.com/replyforge/replyforge/internal/service"
)

type DocumentHandler struct {
	ingest        *service.IngestService
	maxUploadSize int64
}

func NewDocumentHandler(ingest *service.IngestService, maxUploadSize int64) *DocumentHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 20 << 20
	}
	return &DocumentHandler{ingest: ingest, maxUploadSize: maxUploadSize}
}

// Upload accepts a multipart file, creates the document in processing
// state, and returns immediately; ingestion runs in the background and the
// client polls Get for the terminal status.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "file is required")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file exceeds upload limit")
		return
	}
	fileType := strings.ToLower(c.PostForm("file_type"))
	if fileType == "" {
		fileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		handleError(c, err)
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file exceeds upload limit")
		return
	}
	doc, err := h.ingest.CreateFromUpload(c.Request.Context(), getCompanyID(c), service.UploadInput{
		Filename: fileHeader.Filename,
		FileType: fileType,
		Data:     data,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

type submitURLRequest struct {
	URL string `json:"url"`
}

func (h *DocumentHandler) SubmitURL(c *gin.Context) {
	var req submitURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	doc, err := h.ingest.CreateFromURL(c.Request.Context(), getCompanyID(c), req.URL)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	docs, err := h.ingest.List(c.Request.Context(), getCompanyID(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.ingest.Get(c.Request.Context(), getCompanyID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.ingest.Delete(c.Request.Context(), getCompanyID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.ingest.Stats(c.Request.Context(), getCompanyID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}
