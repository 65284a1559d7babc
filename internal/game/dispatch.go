package game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and runs the session's read loop. Each
// inbound message is handled to completion, broadcast included, before the
// next one is read, which gives the per-room ordering guarantee for a single
// client for free; cross-client ordering per room comes from the room lock.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := NewSession(conn)
	h.log.Info("session connected", zap.String("session", s.ID))

	defer func() {
		h.Disconnect(s)
		_ = conn.Close()
		h.log.Info("session closed", zap.String("session", s.ID))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			h.log.Debug("read loop done",
				zap.String("session", s.ID), zap.Error(err))
			return
		}
		h.HandleMessage(r.Context(), s, raw)
	}
}

// HandleMessage parses one envelope and routes it by event name. Every
// failure is contained to this one message: the sender gets an error reply
// and no state changes.
func (h *Hub) HandleMessage(ctx context.Context, s *Session, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.Debug("malformed message",
			zap.String("session", s.ID), zap.Error(err))
		s.SendError(ErrMalformedMessage)
		return
	}

	if err := h.route(ctx, s, env); err != nil {
		h.log.Debug("event failed",
			zap.String("session", s.ID),
			zap.String("event", env.Event),
			zap.Error(err))
		s.SendError(err)
	}
}

func (h *Hub) route(ctx context.Context, s *Session, env Envelope) error {
	switch env.Event {
	case EventCreateRoom:
		return h.CreateRoom(s, env.Admin)
	case EventJoinRoom:
		var p JoinRoomPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.JoinRoom(ctx, s, p)
	case EventUpdateSettings:
		var p UpdateSettingsPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.UpdateSettings(s, p)
	case EventStartGame:
		var p RoomPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.StartGame(s, p)
	case EventSetTargetCords:
		var p SetTargetCordsPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.SetTargetCords(s, p)
	case EventSetTarget:
		var p TargetPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.SetTarget(s, p)
	case EventHandleGuess:
		var p GuessPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.HandleGuess(s, p)
	case EventEndRound:
		var p RoundPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.EndRound(s, p)
	case EventEndGame:
		var p RoomPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.EndGame(s, p)
	case EventBackToRoom:
		var p RoomPayload
		if err := decode(env.Payload, &p); err != nil {
			return err
		}
		return h.BackToRoom(s, p)
	default:
		return fmt.Errorf("Unknown event: %s", env.Event)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return ErrMalformedMessage
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ErrMalformedMessage
	}
	return nil
}
