package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConn records every envelope written to it.
type fakeConn struct {
	mu   sync.Mutex
	msgs []OutEnvelope
}

func (c *fakeConn) WriteJSON(v any) error {
	env, ok := v.(OutEnvelope)
	if !ok {
		panic("fakeConn: unexpected message type")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, env)
	return nil
}

func (c *fakeConn) count(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.msgs {
		if m.Event == event {
			n++
		}
	}
	return n
}

func (c *fakeConn) lastOf(event string) (OutEnvelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Event == event {
			return c.msgs[i], true
		}
	}
	return OutEnvelope{}, false
}

// events returns every event name received, in order.
func (c *fakeConn) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Event
	}
	return out
}

func newTestHub(opts ...Option) *Hub {
	return NewHub(zap.NewNop(), opts...)
}

func newTestSession() (*Session, *fakeConn) {
	conn := &fakeConn{}
	return NewSession(conn), conn
}

// createRoom creates a room through the hub and returns its id.
func createRoom(t *testing.T, h *Hub, s *Session, conn *fakeConn, adminID int) string {
	t.Helper()
	require.NoError(t, h.CreateRoom(s, adminID))
	env, ok := conn.lastOf(EventRoomCreated)
	require.True(t, ok, "expected a roomCreated reply")
	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	id, ok := payload["roomId"].(string)
	require.True(t, ok)
	return id
}

func joinRoom(t *testing.T, h *Hub, s *Session, roomID string, user User) {
	t.Helper()
	require.NoError(t, h.JoinRoom(context.Background(), s, JoinRoomPayload{
		RoomID: roomID,
		User:   user,
	}))
}

// roomFor fetches the live room for white-box assertions.
func roomFor(t *testing.T, h *Hub, id string) *Room {
	t.Helper()
	h.mu.RLock()
	defer h.mu.RUnlock()
	r := h.rooms[id]
	require.NotNil(t, r, "room %s not registered", id)
	return r
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
