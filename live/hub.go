// Package live pushes result updates to connected spectators over
// websockets. One room exists per competition level; the publish
// service broadcasts into a room whenever results for that level change.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Omondi01/sciencefair-system/models"
)

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("websocket client joined",
				slog.String("room", client.Room),
				slog.Int("clients", len(h.rooms[client.Room])),
			)
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// RoomForLevel maps a competition level to its hub room name.
func RoomForLevel(level models.CompetitionLevel) string {
	return "level_" + level.String()
}

// BroadcastLevel sends a message to every client watching the level.
// Slow clients whose send buffer is full are skipped, not blocked on.
func (h *Hub) BroadcastLevel(level models.CompetitionLevel, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := RoomForLevel(level)
	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.trySend(messageBytes)
	}
}
