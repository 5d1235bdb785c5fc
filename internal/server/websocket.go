package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"bowling-game/internal/hub"
	"bowling-game/internal/logging"
	"bowling-game/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// subscribe streams a game's events. The first message is a snapshot of the
// game; every later one follows a committed change.
func (s *Server) subscribe(c *gin.Context) {
	gameID := c.Param("id")
	game, err := s.games.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	// outlives the handler's request context
	ctx := context.WithoutCancel(c.Request.Context())
	logger := logging.FromContext(ctx)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnw("websocket upgrade", "game_id", gameID, "error", err)
		return
	}

	snapshot, err := json.Marshal(models.GameEvent{
		Type:      models.EventGameSnapshot,
		GameID:    gameID,
		Data:      game,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Errorw("marshaling snapshot", "game_id", gameID, "error", err)
		conn.Close()
		return
	}

	client := hub.NewClient(gameID)
	client.Send <- snapshot
	s.hub.Register(ctx, client)

	go s.writePump(ctx, conn, client)
	s.readPump(ctx, conn, client)
}

// readPump discards client messages and unregisters the client when the
// connection closes.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, client *hub.Client) {
	defer func() {
		s.hub.Unregister(ctx, client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.FromContext(ctx).Debugw("websocket read", "client_id", client.ID, "error", err)
			}
			return
		}
	}
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.FromContext(ctx).Debugw("websocket write", "client_id", client.ID, "error", err)
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
