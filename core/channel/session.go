package channel

import (
	"sync"

	"github.com/gorilla/websocket"
)

// WSSession adapts a gorilla *websocket.Conn to the Session interface,
// serializing writes with a mutex (gorilla connections are not safe for
// concurrent writers) and tracking open/closed state.
type WSSession struct {
	id   string
	conn *websocket.Conn

	mu   sync.Mutex
	open bool
}

// NewWSSession wraps conn, identified by id (typically derived from a path
// parameter or a generated session token).
func NewWSSession(id string, conn *websocket.Conn) *WSSession {
	return &WSSession{id: id, conn: conn, open: true}
}

func (s *WSSession) ID() string { return s.id }

func (s *WSSession) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Send writes frame to the underlying connection. Safe for concurrent use.
func (s *WSSession) Send(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return websocket.ErrCloseSent
	}
	msgType := websocket.TextMessage
	if frame.Binary {
		msgType = websocket.BinaryMessage
	}
	return s.conn.WriteMessage(msgType, frame.Data)
}

// Close marks the session closed and closes the underlying connection.
// Safe to call more than once.
func (s *WSSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	s.open = false
	return s.conn.Close()
}
