package game

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleRaw(t *testing.T, h *Hub, s *Session, raw string) {
	t.Helper()
	h.HandleMessage(context.Background(), s, []byte(raw))
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "joinRoom", "payload":`)

	env, ok := conn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON format", env.Message)
	assert.Nil(t, env.Payload)
}

func TestHandleMessage_UnknownEvent(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "drawLine", "payload": {}}`)

	env, ok := conn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Unknown event: drawLine", env.Message)
}

func TestHandleMessage_MissingPayload(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "joinRoom"}`)

	env, ok := conn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON format", env.Message)
}

func TestHandleMessage_PayloadShapeMismatch(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "joinRoom", "payload": {"roomId": 7}}`)

	env, ok := conn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON format", env.Message)
}

func TestHandleMessage_RoomNotFoundReply(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "joinRoom", "payload": {"roomId": "missing", "user": {"id": 1}}}`)

	env, ok := conn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Room not found", env.Message)
}

func TestHandleMessage_CreateRoomEnvelope(t *testing.T) {
	h := newTestHub()
	s, conn := newTestSession()

	handleRaw(t, h, s, `{"event": "createRoom", "admin": 42}`)

	env, ok := conn.lastOf(EventRoomCreated)
	require.True(t, ok)
	payload := env.Payload.(map[string]any)
	assert.Equal(t, 42, payload["admin"])
	assert.NotEmpty(t, payload["roomId"])
	assert.Equal(t, 1, h.RoomCount())
}

// TestHandleMessage_FullFlow drives one complete pinpointing game through the
// wire framing end to end.
func TestHandleMessage_FullFlow(t *testing.T) {
	h := newTestHub()
	admin, adminConn := newTestSession()

	handleRaw(t, h, admin, `{"event": "createRoom", "admin": 1}`)
	env, ok := adminConn.lastOf(EventRoomCreated)
	require.True(t, ok)
	id := env.Payload.(map[string]any)["roomId"].(string)

	send := func(s *Session, event string, payload any) {
		t.Helper()
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		handleRaw(t, h, s, fmt.Sprintf(`{"event": %q, "payload": %s}`, event, raw))
	}

	send(admin, EventJoinRoom, map[string]any{"roomId": id, "user": map[string]any{"id": 1}})
	guest, guestConn := newTestSession()
	send(guest, EventJoinRoom, map[string]any{"roomId": id, "user": map[string]any{"id": 2}})

	send(admin, EventStartGame, map[string]any{"roomId": id})
	send(admin, EventSetTargetCords, map[string]any{
		"roomId": id, "round": 1, "cords": map[string]any{"lat": 48.85, "lng": 2.35},
	})
	send(admin, EventSetTarget, map[string]any{"roomId": id, "round": 1})

	send(guest, EventHandleGuess, map[string]any{
		"roomId": id, "round": 1, "userId": 2,
		"type": "finishGuess", "coordinates": map[string]any{"lat": 1.0, "lng": 1.0},
	})
	send(admin, EventHandleGuess, map[string]any{
		"roomId": id, "round": 1, "userId": 1,
		"type": "finishGuess", "coordinates": map[string]any{"lat": 2.0, "lng": 2.0},
	})

	require.Equal(t, 1, guestConn.count(EventPinpointingRoundEnd))

	send(admin, EventEndGame, map[string]any{"roomId": id})
	require.Equal(t, 1, guestConn.count(EventGameEnded))

	send(admin, EventBackToRoom, map[string]any{"roomId": id})
	require.Equal(t, 1, guestConn.count(EventBackUsersToRoom))

	// The whole flow produced no error replies on either side.
	assert.Equal(t, 0, adminConn.count(EventError))
	assert.Equal(t, 0, guestConn.count(EventError))
}

func TestHandleMessage_NonAdminStartGameReply(t *testing.T) {
	h := newTestHub()
	admin, adminConn := newTestSession()
	id := createRoom(t, h, admin, adminConn, 1)
	joinRoom(t, h, admin, id, User{ID: 1})

	guest, guestConn := newTestSession()
	joinRoom(t, h, guest, id, User{ID: 2})

	handleRaw(t, h, guest, fmt.Sprintf(`{"event": "startGame", "payload": {"roomId": %q}}`, id))

	env, ok := guestConn.lastOf(EventError)
	require.True(t, ok)
	assert.Equal(t, "Not authorized", env.Message)
}

func TestWireMessage_FrozenStrings(t *testing.T) {
	cases := map[error]string{
		ErrMalformedMessage: "Invalid JSON format",
		ErrRoomNotFound:     "Room not found",
		ErrRoomFull:         "Room is full",
		ErrUnknownGameMode:  "Unknown game mode",
	}
	for err, want := range cases {
		assert.Equal(t, want, wireMessage(err))
	}
}
