package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// pingPeriod must stay below pongWait; the session is re-checked at the same pace
	pingPeriod = (pongWait * 9) / 10

	// sessionCheckTimeout bounds one SessionCheck call
	sessionCheckTimeout = 5 * time.Second

	// The feed is one-way. Inbound frames are limited to what a control or
	// keepalive message needs and are discarded.
	maxInboundSize = 512

	sendBuffer = 256
)

// SessionCheck re-resolves the connected user from the credential the
// connection was opened with. An error ends the session.
type SessionCheck func(ctx context.Context) (*domain.User, error)

// Client is one dashboard connection to the live feed
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	hub    *Hub
	check  SessionCheck
	send   chan []byte

	mu        sync.RWMutex
	role      domain.Role
	closed    bool
	closeOnce sync.Once
}

// NewClient creates a client for an authenticated user. check may be nil, in
// which case the session lasts until the peer disconnects.
func NewClient(conn *websocket.Conn, user *domain.User, hub *Hub, check SessionCheck) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: user.ID,
		role:   user.Role,
		conn:   conn,
		hub:    hub,
		check:  check,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }

// Role returns the role the client currently receives events for
func (c *Client) Role() domain.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

// Send queues data; a full buffer means the client is too slow and is treated as closed
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close ends the connection. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// revalidate runs the session check. It reports false when the session must
// end and re-files the client when the user's role changed.
func (c *Client) revalidate(ctx context.Context) bool {
	if c.check == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, sessionCheckTimeout)
	defer cancel()

	user, err := c.check(ctx)
	if err != nil || user == nil || !user.IsActive {
		log.Info().
			Err(err).
			Str("client_id", c.id).
			Str("user_id", c.userID).
			Msg("WebSocket session no longer valid")
		return false
	}

	if user.Role != c.Role() {
		c.mu.Lock()
		c.role = user.Role
		c.mu.Unlock()
		c.hub.MoveUser(c.userID, user.Role)

		log.Debug().
			Str("client_id", c.id).
			Str("role", user.Role.String()).
			Msg("WebSocket client role changed")
	}
	return true
}

// ReadPump keeps the read deadline fresh through pongs and discards inbound
// frames. It unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump delivers queued events and, on every ping tick, re-checks the
// session before pinging. A failed check sends a policy-violation close frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !c.revalidate(context.Background()) {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired"))
				c.hub.Unregister(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
