package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and routes activity messages to the
// connections of their owning user.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Outbound messages addressed to a single user's connections.
	publish chan userMessage

	// A map of user IDs to the set of that user's connections.
	rooms map[string]map[*Client]bool
}

type userMessage struct {
	userID  string
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		publish:    make(chan userMessage, 64),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.rooms[client.UserID] == nil {
				h.rooms[client.UserID] = make(map[*Client]bool)
			}
			h.rooms[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			for client := range h.rooms[msg.userID] {
				select {
				case client.Send <- msg.payload:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// Publish queues a payload for delivery to all of the user's connections.
// Safe to call from any goroutine.
func (h *Hub) Publish(userID string, payload []byte) {
	select {
	case h.publish <- userMessage{userID: userID, payload: payload}:
	default:
		log.Warn().Str("user_id", userID).Msg("Dropping event push, hub queue full")
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if room, ok := h.rooms[client.UserID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.UserID)
		}
	}
}
