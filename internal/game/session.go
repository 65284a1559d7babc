package game

import (
	"sync"

	"github.com/google/uuid"
)

// Sender is the write side of a connection. *websocket.Conn satisfies it;
// tests substitute a recorder.
type Sender interface {
	WriteJSON(v any) error
}

// Session is one open bidirectional connection. It is owned by exactly one
// connected user for its lifetime and identified by an opaque id, so rooms
// never key on the transport handle itself.
type Session struct {
	ID string

	mu   sync.Mutex
	conn Sender
}

// NewSession wraps a connection in a session handle with a fresh id.
func NewSession(conn Sender) *Session {
	return &Session{ID: uuid.New().String(), conn: conn}
}

// Send writes one envelope. The mutex serializes writers; broadcasts and
// per-session replies may race on the same connection otherwise.
func (s *Session) Send(msg OutEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}

// SendError replies an error envelope to this session only.
func (s *Session) SendError(err error) {
	_ = s.Send(OutEnvelope{Event: EventError, Message: wireMessage(err)})
}
