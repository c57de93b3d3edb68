package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local single-user service
	},
}

// ProgressWebSocketHandler streams download progress over a WebSocket
type ProgressWebSocketHandler struct {
	downloads *app.DownloadSimulator
	logger    *zap.Logger
}

// NewProgressWebSocketHandler creates a new progress handler
func NewProgressWebSocketHandler(downloads *app.DownloadSimulator, log *zap.Logger) *ProgressWebSocketHandler {
	return &ProgressWebSocketHandler{
		downloads: downloads,
		logger:    log,
	}
}

// HandleWebSocket handles GET /api/v1/downloads/:id/progress. It sends the
// current state, then every change, and closes after the terminal event.
func (h *ProgressWebSocketHandler) HandleWebSocket(c *gin.Context) {
	id := c.Param("id")

	// subscribe before reading the task so no change falls in between
	events, unsubscribe := h.downloads.Subscribe(id)
	defer unsubscribe()

	task, err := h.downloads.Get(id)
	if err != nil {
		respondError(c, h.logger, "Failed to get download", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("Progress client connected",
		zap.String("id", id),
		zap.String("remote_addr", c.Request.RemoteAddr))

	last := task.Event()
	if err := h.write(conn, last); err != nil {
		return
	}
	if task.IsTerminal() {
		h.close(conn)
		return
	}

	// Read messages from client so close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				h.close(conn)
				return
			}
			if event.Progress < last.Progress {
				continue
			}
			last = event
			if err := h.write(conn, event); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func (h *ProgressWebSocketHandler) write(conn *websocket.Conn, event domain.ProgressEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(event); err != nil {
		h.logger.Debug("Failed to send progress", zap.String("id", event.TaskID), zap.Error(err))
		return err
	}
	return nil
}

func (h *ProgressWebSocketHandler) close(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "download finished")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}
