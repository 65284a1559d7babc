package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserResolver fetches a user profile by id. It is the only interface the
// core has to the identity collaborator; a nil resolver means the profile in
// the join payload is trusted as-is.
type UserResolver interface {
	Resolve(ctx context.Context, id int) (User, error)
}

// Hub owns the set of live rooms and maps each connected session to a room
// and user identity. One hub per process; rooms are fully partitioned by id.
type Hub struct {
	log      *zap.Logger
	resolver UserResolver
	modes    map[string]Mode

	// roundTimerEnabled turns on the server-side round timer; roundTime is
	// advisory otherwise.
	roundTimerEnabled bool

	mu    sync.RWMutex
	rooms map[string]*Room
}

// Option configures a Hub.
type Option func(*Hub)

// WithUserResolver makes joinRoom re-resolve the joining user's profile by
// id instead of trusting the payload.
func WithUserResolver(r UserResolver) Option {
	return func(h *Hub) { h.resolver = r }
}

// WithRoundTimer enables the per-room round timer that force-ends a round
// after settings.roundTime seconds.
func WithRoundTimer() Option {
	return func(h *Hub) { h.roundTimerEnabled = true }
}

// NewHub creates a hub with both game modes registered.
func NewHub(log *zap.Logger, opts ...Option) *Hub {
	h := &Hub{
		log:   log,
		rooms: make(map[string]*Room),
		modes: map[string]Mode{
			ModePinpointing: PinpointingMode{},
			ModeCountry:     CountryMode{},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RoomCount reports how many rooms are live.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// lockRoom resolves a room and locks it. A room deleted between lookup and
// lock reports not-found, so handlers abort instead of mutating a corpse.
// The caller must unlock r.mu.
func (h *Hub) lockRoom(id string) (*Room, bool) {
	h.mu.RLock()
	r := h.rooms[id]
	h.mu.RUnlock()
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, false
	}
	return r, true
}

// broadcastLocked fans the envelope out to every session in the room.
// Caller holds r.mu, so the broadcast is atomic with the mutation that
// produced it. Write failures are logged and skipped; the reader side will
// notice the dead connection and disconnect.
func (h *Hub) broadcastLocked(r *Room, msg OutEnvelope) {
	for _, p := range r.players {
		if err := p.Session.Send(msg); err != nil {
			h.log.Warn("broadcast failed",
				zap.String("room", r.ID),
				zap.String("session", p.Session.ID),
				zap.String("event", msg.Event),
				zap.Error(err))
		}
	}
}

// authAdminLocked checks that the session belongs to the room admin. Caller
// holds r.mu.
func (r *Room) authAdminLocked(s *Session) error {
	p, ok := r.players[s.ID]
	if !ok || p.User.ID != r.AdminID {
		return ErrNotAuthorized
	}
	return nil
}

// CreateRoom allocates a room with default settings and announces the id to
// the creator only. The creator still joins through joinRoom like everyone
// else.
func (h *Hub) CreateRoom(s *Session, adminID int) error {
	r := newRoom(uuid.New().String(), adminID)

	h.mu.Lock()
	h.rooms[r.ID] = r
	h.mu.Unlock()

	h.log.Info("room created",
		zap.String("room", r.ID),
		zap.Int("admin", adminID))

	return s.Send(OutEnvelope{
		Event: EventRoomCreated,
		Payload: map[string]any{
			"roomId": r.ID,
			"admin":  adminID,
		},
	})
}

// JoinRoom adds the session to the room and broadcasts the updated member
// list plus, when a game is running, the current round's staged coordinates
// so a late joiner can render the live state.
func (h *Hub) JoinRoom(ctx context.Context, s *Session, p JoinRoomPayload) error {
	user := p.User
	if h.resolver != nil {
		resolved, err := h.resolver.Resolve(ctx, p.User.ID)
		if err != nil {
			h.log.Warn("user resolve failed, using payload profile",
				zap.Int("user", p.User.ID), zap.Error(err))
		} else {
			user = resolved
		}
	}

	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	if len(r.players) >= r.settings.MaxPlayers {
		return ErrRoomFull
	}

	r.players[s.ID] = &Player{Session: s, User: user}

	// Clients expect coordinates for the round in progress, or an empty
	// list outside a game. A missing staged target degrades to empty
	// rather than failing the join.
	var currentCords any = []Coordinates{}
	if r.game.IsGameStarted {
		if cords, staged := r.game.TargetCoordinates[r.game.RoundsPlayed+1]; staged {
			currentCords = cords
		}
	}

	h.log.Info("user joined",
		zap.String("room", r.ID),
		zap.Int("user", user.ID),
		zap.Int("players", len(r.players)))

	h.broadcastLocked(r, OutEnvelope{
		Event: EventNewUserJoined,
		Payload: map[string]any{
			"message":  "A new user joined",
			"users":    r.users(),
			"user":     user,
			"settings": r.settings,
			"gameState": map[string]any{
				"id":                r.ID,
				"adminId":           r.AdminID,
				"isGameStarted":     r.game.IsGameStarted,
				"isGameEnded":       r.game.IsGameEnded,
				"isRoundStarted":    r.game.IsRoundStarted,
				"isRoundEnded":      r.game.IsRoundEnded,
				"roundsPlayed":      r.game.RoundsPlayed,
				"targetCoordinates": currentCords,
			},
			"countryMode":     r.country,
			"pinpointingMode": r.pinpointing,
		},
	})
	return nil
}

// UpdateSettings merges the partial settings over the room's and broadcasts
// the result. Admin only.
func (h *Hub) UpdateSettings(s *Session, p UpdateSettingsPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	if err := r.authAdminLocked(s); err != nil {
		return err
	}

	r.settings.Apply(p.Settings)

	h.log.Debug("settings updated", zap.String("room", r.ID))

	h.broadcastLocked(r, OutEnvelope{
		Event:   EventSettingsUpdated,
		Payload: map[string]any{"settings": r.settings},
	})
	return nil
}

// Disconnect removes the session from every room containing it. The admin
// leaving closes the room for everyone; otherwise the player is removed,
// their guesses pruned, and an empty room is garbage-collected. Calling it
// twice for the same session is a no-op.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, r := range h.rooms {
		r.mu.Lock()
		p, member := r.players[s.ID]
		if !member {
			r.mu.Unlock()
			continue
		}

		if p.User.ID == r.AdminID {
			delete(r.players, s.ID)
			h.broadcastLocked(r, OutEnvelope{
				Event: EventRoomClosed,
				Payload: map[string]any{
					"message": "The admin has left the room. The room is closed.",
				},
			})
			h.closeRoomLocked(r)
			delete(h.rooms, id)
			h.log.Info("room closed, admin left", zap.String("room", id))
			r.mu.Unlock()
			continue
		}

		delete(r.players, s.ID)
		r.pruneGuesses(p.User.ID)

		h.broadcastLocked(r, OutEnvelope{
			Event: EventUserLeaveSuccess,
			Payload: map[string]any{
				"message":   "A user leaved",
				"users":     r.users(),
				"userLeave": p.User,
			},
		})

		if len(r.players) == 0 {
			h.closeRoomLocked(r)
			delete(h.rooms, id)
			h.log.Info("room deleted, last player left", zap.String("room", id))
		}
		r.mu.Unlock()
	}
}

// closeRoomLocked marks the room dead and stops its timer. Caller holds
// both h.mu and r.mu.
func (h *Hub) closeRoomLocked(r *Room) {
	r.closed = true
	r.stopRoundTimerLocked()
}

// roundDuration returns the advisory round time as a duration. Caller holds
// r.mu.
func (r *Room) roundDuration() time.Duration {
	return time.Duration(r.settings.RoundTime) * time.Second
}
