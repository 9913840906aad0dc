package websocket

import "github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all connected clients with at least the given role
	Publish(audience domain.Role, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the audience.
// User lifecycle events also update the hub: deactivated or deleted users are
// disconnected and a changed role moves the user's connections.
func (h *Hub) Publish(audience domain.Role, event Event) {
	h.Broadcast(audience, event)

	if event.Entity != EntityTypeUser {
		return
	}
	switch payload := event.Payload.(type) {
	case DeletedPayload:
		h.DisconnectUser(payload.ID)
	case *domain.User:
		if payload.IsActive {
			h.MoveUser(payload.ID, payload.Role)
		} else {
			h.DisconnectUser(payload.ID)
		}
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(audience domain.Role, event Event) {}
