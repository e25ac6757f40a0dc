package http

import (
	"net/http"
	"time"

	"feedstream/internal/notifier"
	"feedstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type StreamHandler struct {
	hub    *notifier.Hub
	logger *logger.Logger

	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *notifier.Hub, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The SPA connects from its own origin; events are not secret
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and forwards post lifecycle events to the
// observer until it disconnects. Delivery is live-only: nothing is replayed
// and events a slow connection misses are gone.
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade stream connection: %v", err)
		return
	}

	sub := h.hub.Subscribe()

	// Reader goroutine: we never expect client messages, but reading is
	// what surfaces the close.
	go func() {
		defer sub.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
