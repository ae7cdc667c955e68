package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "sheworks/internal/infrastructure/websocket"
	"sheworks/pkg/errors"
	"sheworks/pkg/response"
	"sheworks/pkg/safego"
)

// WebSocketHandler upgrades /ws. Identity is established later by the
// authenticate event, not by the HTTP request.
type WebSocketHandler struct {
	manager     *ws.Manager
	coordinator *ws.Coordinator
	upgrader    gorillaws.Upgrader
}

func NewWebSocketHandler(manager *ws.Manager, coordinator *ws.Coordinator, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		manager:     manager,
		coordinator: coordinator,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error when the handshake is rejected.
		if c.Response().Committed {
			return nil
		}
		return response.Error(c, errors.BadRequest("Failed to upgrade connection", err))
	}

	client := ws.NewClient(conn)
	h.manager.Register(client)

	safego.Go("ws-write-"+client.ID, client.WritePump)
	safego.Go("ws-read-"+client.ID, func() { client.ReadPump(h.manager, h.coordinator) })

	return nil
}
