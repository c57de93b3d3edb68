package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/streamfetch-go/internal/app"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	library   *app.LibraryStore
	downloads *app.DownloadSimulator
	fetcher   *app.MetadataFetcher
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(library *app.LibraryStore, downloads *app.DownloadSimulator, fetcher *app.MetadataFetcher) *HealthHandler {
	return &HealthHandler{
		library:   library,
		downloads: downloads,
		fetcher:   fetcher,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Metadata struct {
		Available bool `json:"available"`
	} `json:"metadata"`
	Downloads struct {
		Active bool `json:"active"`
	} `json:"downloads"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	response.Metadata.Available = h.fetcher.Available()
	response.Downloads.Active = h.downloads.Busy()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.library.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "library storage unreachable: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
