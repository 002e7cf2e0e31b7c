package sse

import (
	"encoding/json"
	"sync"

	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/google/uuid"
)

// ToastTTLMillis is how long the dashboard keeps an acknowledgment toast
// on screen before it expires.
const ToastTTLMillis = 3500

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type OrderEventData struct {
	OrderID   uuid.UUID `json:"order_id"`
	OwnerID   string    `json:"owner_id"`
	Status    string    `json:"status"`
	UpdatedBy uuid.UUID `json:"updated_by"`
}

type SchemaEventData struct {
	Headers []string `json:"headers"`
}

type ToastEventData struct {
	Message   string `json:"message"`
	TTLMillis int    `json:"ttl_ms"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Role   rbac.Role
	Send   chan []byte
}

// message pairs an event with its visibility: ownerID scopes order
// events so clients only hear about their own rows, targetUserID
// restricts delivery to one user's connections.
type message struct {
	event        Event
	ownerScoped  bool
	ownerID      string
	targetUserID uuid.UUID
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *message
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *message, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.event)
			for _, client := range h.clients {
				if !h.visibleTo(client, msg) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) visibleTo(client *Client, msg *message) bool {
	if msg.targetUserID != uuid.Nil {
		return client.UserID == msg.targetUserID
	}
	if msg.ownerScoped && !rbac.Can(client.Role, rbac.CapViewAllRows) {
		// Unresolved rows (owner id "") are visible to no client account.
		return msg.ownerID != "" && msg.ownerID == client.UserID.String()
	}
	return true
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) BroadcastOrderEvent(eventType string, orderID uuid.UUID, ownerID, status string, updatedBy uuid.UUID) {
	h.broadcast <- &message{
		ownerScoped: true,
		ownerID:     ownerID,
		event: Event{
			Type: eventType,
			Data: OrderEventData{
				OrderID:   orderID,
				OwnerID:   ownerID,
				Status:    status,
				UpdatedBy: updatedBy,
			},
		},
	}
}

func (h *Hub) BroadcastSchemaUpdate(headers []string) {
	h.broadcast <- &message{
		event: Event{
			Type: "schema_updated",
			Data: SchemaEventData{Headers: headers},
		},
	}
}

// SendToast pushes an ephemeral acknowledgment to one user's connections.
func (h *Hub) SendToast(userID uuid.UUID, text string) {
	h.broadcast <- &message{
		targetUserID: userID,
		event: Event{
			Type: "toast",
			Data: ToastEventData{Message: text, TTLMillis: ToastTTLMillis},
		},
	}
}
