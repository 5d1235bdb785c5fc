// Package hub fans game events out to websocket subscribers.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"bowling-game/internal/logging"
	"bowling-game/internal/models"
)

// SendBuffer is the number of messages queued for a client before it is
// considered too slow and dropped.
const SendBuffer = 64

type Client struct {
	ID     string
	GameID string
	Send   chan []byte
}

func NewClient(gameID string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		GameID: gameID,
		Send:   make(chan []byte, SendBuffer),
	}
}

// Hub holds one GameHub per game with at least one subscriber.
type Hub struct {
	mu    sync.RWMutex
	games map[string]*GameHub
}

type GameHub struct {
	gameID  string
	mu      sync.Mutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		games: make(map[string]*GameHub),
	}
}

func (h *Hub) GetGameHub(gameID string) *GameHub {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.games[gameID]
}

func (h *Hub) Register(ctx context.Context, client *Client) {
	h.mu.Lock()
	gameHub, ok := h.games[client.GameID]
	if !ok {
		gameHub = &GameHub{gameID: client.GameID, clients: make(map[string]*Client)}
		h.games[client.GameID] = gameHub
	}
	n := gameHub.register(client)
	h.mu.Unlock()

	logging.FromContext(ctx).Debugw("subscriber registered", "game_id", client.GameID, "client_id", client.ID, "subscribers", n)
}

// Unregister removes the client and closes its Send channel if the hub has
// not already dropped it.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	remaining := 0
	if gameHub, ok := h.games[client.GameID]; ok {
		remaining = gameHub.unregister(client)
		if remaining == 0 {
			delete(h.games, client.GameID)
		}
	}
	h.mu.Unlock()

	logging.FromContext(ctx).Debugw("subscriber left", "game_id", client.GameID, "client_id", client.ID, "subscribers", remaining)
}

// Publish sends the event to every subscriber of its game.
func (h *Hub) Publish(ctx context.Context, event models.GameEvent) {
	gameHub := h.GetGameHub(event.GameID)
	if gameHub == nil {
		return
	}

	logger := logging.FromContext(ctx)
	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorw("marshaling event", "game_id", event.GameID, "type", event.Type, "error", err)
		return
	}

	sent, dropped := gameHub.Broadcast(data)
	logger.Debugw("event broadcast", "game_id", event.GameID, "type", event.Type, "sent", sent, "dropped", dropped)
}

func (gh *GameHub) register(client *Client) int {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	if existing, ok := gh.clients[client.ID]; ok && existing.Send != client.Send {
		close(existing.Send)
	}
	gh.clients[client.ID] = client
	return len(gh.clients)
}

func (gh *GameHub) unregister(client *Client) int {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	if existing, ok := gh.clients[client.ID]; ok {
		delete(gh.clients, client.ID)
		close(existing.Send)
	}
	return len(gh.clients)
}

// Broadcast queues data for every client. A client whose queue is full is
// removed and its Send channel closed.
func (gh *GameHub) Broadcast(data []byte) (sent, dropped int) {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	for id, client := range gh.clients {
		select {
		case client.Send <- data:
			sent++
		default:
			close(client.Send)
			delete(gh.clients, id)
			dropped++
		}
	}
	return sent, dropped
}

func (gh *GameHub) GetClients() map[string]*Client {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	result := make(map[string]*Client, len(gh.clients))
	for k, v := range gh.clients {
		result[k] = v
	}
	return result
}
