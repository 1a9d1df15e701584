package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anchal00/campbot/internal/bot"
	"github.com/anchal00/campbot/internal/state"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var ErrNoConnection = errors.New("user has no open connection")

// ConnectionStore tracks the open websocket connections of each user and
// delivers bot replies to all of them.
type ConnectionStore interface {
	bot.Messenger
	AddConnection(user state.UserID, conn *websocket.Conn) string
	RemoveConnection(user state.UserID, connID string)
	Count(user state.UserID) int
	CloseAll()
}

// gorilla connections allow one concurrent writer.
type userConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

type InMemoryConnectionStore struct {
	mu    sync.RWMutex
	conns map[state.UserID]map[string]*userConn
}

func NewConnectionStore() *InMemoryConnectionStore {
	return &InMemoryConnectionStore{
		conns: make(map[state.UserID]map[string]*userConn),
	}
}

func (c *InMemoryConnectionStore) AddConnection(user state.UserID, wssConn *websocket.Conn) string {
	connID := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	userConns, exists := c.conns[user]
	if !exists {
		userConns = make(map[string]*userConn)
		c.conns[user] = userConns
	}
	userConns[connID] = &userConn{ws: wssConn}
	return connID
}

func (c *InMemoryConnectionStore) RemoveConnection(user state.UserID, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	userConns, exists := c.conns[user]
	if !exists {
		return
	}
	delete(userConns, connID)
	if len(userConns) == 0 {
		delete(c.conns, user)
	}
}

func (c *InMemoryConnectionStore) Count(user state.UserID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns[user])
}

// Send delivers the reply to every open connection of the user. A connection
// whose write fails is closed and forgotten; Send fails only when no
// connection received the reply.
func (c *InMemoryConnectionStore) Send(ctx context.Context, user state.UserID, reply bot.Reply) error {
	c.mu.RLock()
	targets := make(map[string]*userConn, len(c.conns[user]))
	for connID, uc := range c.conns[user] {
		targets[connID] = uc
	}
	c.mu.RUnlock()
	if len(targets) == 0 {
		return ErrNoConnection
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	delivered := 0
	var errs []error
	for connID, uc := range targets {
		if err := uc.write(reply, deadline); err != nil {
			errs = append(errs, fmt.Errorf("connection %s: %w", connID, err))
			c.RemoveConnection(user, connID)
			uc.ws.Close()
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (uc *userConn) write(reply bot.Reply, deadline time.Time) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return uc.ws.WriteJSON(reply)
}

// CloseAll sends a going-away close frame to every open connection and closes
// it. The read loops of those connections end on their next read.
func (c *InMemoryConnectionStore) CloseAll() {
	c.mu.Lock()
	all := c.conns
	c.conns = make(map[state.UserID]map[string]*userConn)
	c.mu.Unlock()

	closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, userConns := range all {
		for _, uc := range userConns {
			uc.mu.Lock()
			_ = uc.ws.WriteControl(websocket.CloseMessage, closing, time.Now().Add(time.Second))
			uc.ws.Close()
			uc.mu.Unlock()
		}
	}
}
