package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/app"
)

// SessionHandler exposes the UI state machine
type SessionHandler struct {
	session *app.Session
	logger  *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session *app.Session, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

// State handles GET /api/v1/session
func (h *SessionHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// Home handles POST /api/v1/session/home
func (h *SessionHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.ShowHome())
}

// Library handles POST /api/v1/session/library
func (h *SessionHandler) Library(c *gin.Context) {
	state, records := h.session.ShowLibrary()
	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"library": records,
	})
}

// Open handles POST /api/v1/session/open/:id
func (h *SessionHandler) Open(c *gin.Context) {
	state, err := h.session.Open(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to open record", err)
		return
	}
	c.JSON(http.StatusOK, state)
}
