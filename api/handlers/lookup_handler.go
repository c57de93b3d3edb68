package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

// LookupHandler resolves links into metadata records
type LookupHandler struct {
	session *app.Session
	library *app.LibraryStore
	logger  *zap.Logger
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(session *app.Session, library *app.LibraryStore, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		session: session,
		library: library,
		logger:  logger,
	}
}

// LookupRequest represents a request to resolve a link
type LookupRequest struct {
	URL string `json:"url" binding:"required"`
}

// LookupResponse is a resolved record plus whether it is saved
type LookupResponse struct {
	Record domain.MetadataRecord `json:"record"`
	Saved  bool                  `json:"saved"`
}

// Lookup handles POST /api/v1/lookup
func (h *LookupHandler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.session.Search(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, h.logger, "Lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Record: record,
		Saved:  h.library.Contains(record.ID),
	})
}

// Formats handles GET /api/v1/formats?collection=bool
func (h *LookupHandler) Formats(c *gin.Context) {
	collection := false
	if raw := c.Query("collection"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "collection must be true or false"})
			return
		}
		collection = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
		"formats":    domain.FormatsFor(collection),
	})
}
