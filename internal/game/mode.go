package game

// RoundTarget is one entry of the end-of-game recap, ordered by round.
type RoundTarget struct {
	Round       int          `json:"round"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Country     string       `json:"country,omitempty"`
	Code        string       `json:"code,omitempty"`
}

// GuessOutcome names the broadcast a handled guess produced.
type GuessOutcome struct {
	Event string
}

// Mode is the per-game-mode strategy: setting a round's target, recording a
// guess, and projecting the target history for the final recap. Methods are
// called with the room lock held.
type Mode interface {
	Name() string
	SetTarget(r *Room, p TargetPayload) error
	HandleGuess(r *Room, p GuessPayload) (GuessOutcome, error)
	EndGame(r *Room) []RoundTarget
}

// modeFor resolves the active strategy for a room's settings.
func (h *Hub) modeFor(r *Room) (Mode, error) {
	m, ok := h.modes[r.settings.GameMode]
	if !ok {
		return nil, ErrUnknownGameMode
	}
	return m, nil
}
