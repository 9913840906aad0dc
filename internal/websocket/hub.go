package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	UserID() string
	Role() domain.Role
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by the role of the connected user.
// It is safe for concurrent use.
type Hub struct {
	// roles maps a role to a map of client ID to client
	roles map[domain.Role]map[string]ClientInterface
	mu    sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		roles: make(map[domain.Role]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its role
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	role := client.Role()
	if h.roles[role] == nil {
		h.roles[role] = make(map[string]ClientInterface)
	}
	h.roles[role][client.ID()] = client

	log.Debug().
		Str("role", role.String()).
		Str("user_id", client.UserID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub. The client is looked up by ID in
// every role bucket because MoveUser may have re-filed it.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientID := client.ID()
	for role, clients := range h.roles {
		if _, exists := clients[clientID]; !exists {
			continue
		}
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.roles, role)
		}

		log.Debug().
			Str("role", role.String()).
			Str("client_id", clientID).
			Msg("WebSocket client unregistered")
		return
	}
}

// DisconnectUser closes every connection of userID and returns how many were dropped
func (h *Hub) DisconnectUser(userID string) int {
	h.mu.Lock()
	dropped := make([]ClientInterface, 0)
	for role, clients := range h.roles {
		for id, client := range clients {
			if client.UserID() == userID {
				dropped = append(dropped, client)
				delete(clients, id)
			}
		}
		if len(clients) == 0 {
			delete(h.roles, role)
		}
	}
	h.mu.Unlock()

	for _, client := range dropped {
		client.Close()
	}
	if len(dropped) > 0 {
		log.Info().
			Str("user_id", userID).
			Int("client_count", len(dropped)).
			Msg("WebSocket user disconnected")
	}
	return len(dropped)
}

// MoveUser re-files the connections of userID under role, so broadcasts
// follow a role change without a reconnect
func (h *Hub) MoveUser(userID string, role domain.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for current, clients := range h.roles {
		if current == role {
			continue
		}
		for id, client := range clients {
			if client.UserID() != userID {
				continue
			}
			if h.roles[role] == nil {
				h.roles[role] = make(map[string]ClientInterface)
			}
			h.roles[role][id] = client
			delete(clients, id)
		}
		if len(clients) == 0 {
			delete(h.roles, current)
		}
	}
}

// Broadcast sends an event to every client whose role is at least minRole
func (h *Hub) Broadcast(minRole domain.Role, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	// Copy clients to avoid holding lock during send
	h.mu.RLock()
	recipients := make([]ClientInterface, 0)
	for role, clients := range h.roles {
		if !role.AtLeast(minRole) {
			continue
		}
		for _, client := range clients {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	if len(recipients) == 0 {
		return
	}

	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("event_type", event.Type).
		Str("min_role", minRole.String()).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients connected with exactly the given role
func (h *Hub) ClientCount(role domain.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.roles[role])
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.roles {
		total += len(clients)
	}
	return total
}
