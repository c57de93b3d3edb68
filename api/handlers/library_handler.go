package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

// LibraryHandler handles saved-record requests
type LibraryHandler struct {
	library *app.LibraryStore
	logger  *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *app.LibraryStore, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

// List handles GET /api/v1/library
func (h *LibraryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"library": h.library.List()})
}

// Add handles POST /api/v1/library
func (h *LibraryHandler) Add(c *gin.Context) {
	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	if !h.library.Add(record) {
		if h.library.Contains(record.ID) {
			c.JSON(http.StatusConflict, gin.H{"error": "record already saved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"library": h.library.List()})
}

// Toggle handles POST /api/v1/library/toggle
func (h *LibraryHandler) Toggle(c *gin.Context) {
	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	saved, records := h.library.Toggle(record)
	c.JSON(http.StatusOK, gin.H{
		"saved":   saved,
		"library": records,
	})
}

// Remove handles DELETE /api/v1/library/:id
func (h *LibraryHandler) Remove(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"library": h.library.Remove(c.Param("id"))})
}

func (h *LibraryHandler) bindRecord(c *gin.Context) (domain.MetadataRecord, bool) {
	var record domain.MetadataRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return record, false
	}
	if record.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record id is required"})
		return record, false
	}
	return record, true
}
