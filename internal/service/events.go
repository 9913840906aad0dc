package service

import (
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// eventSource is embedded by services that broadcast record changes
type eventSource struct {
	eventPublisher websocket.EventPublisher
}

// SetEventPublisher sets the WebSocket event publisher
func (s *eventSource) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *eventSource) publishEvent(audience domain.Role, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(audience, event)
	}
}
