package handlers

import (
	"log"

	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/websocket"
)

// WebSocketHandler streams the same table events as the SSE endpoint for
// clients that prefer a socket. Auth is a token query parameter since
// browsers cannot set headers on websocket upgrades.
type WebSocketHandler struct {
	hub        HubInterface
	jwtService *services.JWTService
}

func NewWebSocketHandler(hub HubInterface, jwtService *services.JWTService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, jwtService: jwtService}
}

func (h *WebSocketHandler) Connect(c *drift.Context) {
	token := c.QueryParam("token")
	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.Unauthorized("invalid or expired token")
		return
	}

	conn, err := websocket.Upgrade(c)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(websocket.CloseNormalClosure, ""); err != nil {
			log.Printf("websocket close error: %v", err)
		}
	}()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: claims.UserID,
		Role:   rbac.Normalize(claims.Role),
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := conn.WriteJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		// Drain reads so we notice the peer closing.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := conn.WriteText(string(msg)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
