package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// userEvent is an internal struct for routing events to one user's clients
type userEvent struct {
	UserID uuid.UUID
	Event  Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Each user gets a room; a confirmed order is pushed to every device that
// user has connected.
type Hub struct {
	// Registered clients by user ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *userEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *userEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.userID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.UserID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all of this user's connected clients
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.UserID], client)
					if len(h.rooms[event.UserID]) == 0 {
						delete(h.rooms, event.UserID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToUser sends an event to all clients connected as the given user.
// This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event Event) {
	h.broadcast <- &userEvent{
		UserID: userID,
		Event:  event,
	}
}
