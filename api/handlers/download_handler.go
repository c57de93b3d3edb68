package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	downloads *app.DownloadSimulator
	logger    *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloads *app.DownloadSimulator, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		downloads: downloads,
		logger:    logger,
	}
}

// StartDownloadRequest represents a request to download one format of a record
type StartDownloadRequest struct {
	Title        string `json:"title" binding:"required"`
	IsCollection bool   `json:"is_collection"`
	FormatID     string `json:"format_id" binding:"required"`
}

// StartDownload handles POST /api/v1/downloads
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req StartDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.downloads.Start(req.Title, req.IsCollection, req.FormatID)
	if err != nil {
		respondError(c, h.logger, "Failed to start download", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetDownload handles GET /api/v1/downloads/:id
func (h *DownloadHandler) GetDownload(c *gin.Context) {
	task, err := h.downloads.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get download", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListDownloads handles GET /api/v1/downloads?status=
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	status := domain.DownloadStatus(c.Query("status"))
	switch status {
	case "", domain.StatusPending, domain.StatusDownloading, domain.StatusCompleted, domain.StatusError:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	tasks, err := h.downloads.List(status)
	if err != nil {
		respondError(c, h.logger, "Failed to list downloads", err)
		return
	}
	if tasks == nil {
		tasks = []*domain.DownloadTask{}
	}

	c.JSON(http.StatusOK, tasks)
}
