package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Omondi01/sciencefair-system/live"
	"github.com/Omondi01/sciencefair-system/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the portal origin before exposing publicly.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeWs subscribes a client to live result updates for one level.
// Clients connect to /ws/levels/{level}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	level, err := models.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		http.Error(w, "unknown competition level", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			slog.String("level", level.String()), slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.RoomForLevel(level),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
