package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Vk9769/voting-backend/internal/logger"
	"github.com/Vk9769/voting-backend/internal/presence"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler upgrades connections onto the live tracking channel. Every
// connection is both a publisher (inbound pings are recorded and fanned
// out) and a subscriber (it receives every broadcast, whichever connection
// originated it).
type WSHandler struct {
	Hub             *presence.Hub
	Tracker         *presence.Tracker
	maxMessageBytes int64
	upgrader        websocket.Upgrader
}

func NewWSHandler(hub *presence.Hub, tracker *presence.Tracker, maxMessageBytes int) *WSHandler {
	if maxMessageBytes <= 0 {
		maxMessageBytes = 4096
	}
	return &WSHandler{
		Hub:             hub,
		Tracker:         tracker,
		maxMessageBytes: int64(maxMessageBytes),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard clients connect from anywhere, same as the REST API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Track handles GET /ws/track.
func (h *WSHandler) Track(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.Hub.Subscribe()
	go h.writeLoop(conn, sub)
	h.readLoop(conn, sub)
}

// readLoop ingests pings from this connection in arrival order, so a
// single agent's records persist in the order its device sent them.
func (h *WSHandler) readLoop(conn *websocket.Conn, sub *presence.Subscriber) {
	defer func() {
		h.Hub.Unsubscribe(sub)
		conn.Close()
	}()

	conn.SetReadLimit(h.maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ping presence.Ping
		if err := json.Unmarshal(data, &ping); err != nil || ping.AgentID == "" {
			logger.Debug("dropping malformed tracking message")
			continue
		}

		if err := h.Tracker.RecordAndBroadcast(ping); err != nil {
			// Persistence failed for this ping; the connection stays up.
			logger.Warn("record tracking ping", zap.Error(err), zap.String("agent", ping.AgentID))
		}
	}
}

// writeLoop relays broadcasts to this connection until the hub closes the
// subscriber channel or the peer goes away.
func (h *WSHandler) writeLoop(conn *websocket.Conn, sub *presence.Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
