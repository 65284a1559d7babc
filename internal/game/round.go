package game

import (
	"go.uber.org/zap"
)

// StartGame flips the game-started flag and broadcasts it. Admin only.
func (h *Hub) StartGame(s *Session, p RoomPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	if err := r.authAdminLocked(s); err != nil {
		return err
	}

	r.game.IsGameStarted = true

	h.log.Info("game started", zap.String("room", r.ID))

	h.broadcastLocked(r, OutEnvelope{
		Event:   EventGameStarted,
		Payload: map[string]any{"isGameStarted": r.game.IsGameStarted},
	})
	return nil
}

// SetTargetCords stages a round's coordinates ahead of the pinpointing mode
// being told to start the round. Admin only.
func (h *Hub) SetTargetCords(s *Session, p SetTargetCordsPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	if err := r.authAdminLocked(s); err != nil {
		return err
	}

	r.game.TargetCoordinates[p.Round] = p.Cords

	h.broadcastLocked(r, OutEnvelope{
		Event:   EventSetTargetCordsDone,
		Payload: map[string]any{"targetCoordinates": p.Cords},
	})
	return nil
}

// SetTarget hands the round's target to the active mode. Country rounds
// begin the moment their target exists, so that mode additionally announces
// the target and a new round. Admin only.
func (h *Hub) SetTarget(s *Session, p TargetPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	if err := r.authAdminLocked(s); err != nil {
		return err
	}

	mode, err := h.modeFor(r)
	if err != nil {
		return err
	}
	if err := mode.SetTarget(r, p); err != nil {
		return err
	}

	r.game.IsRoundStarted = true
	r.game.IsRoundEnded = false
	h.startRoundTimerLocked(r, p.Round)

	h.log.Info("target set",
		zap.String("room", r.ID),
		zap.String("mode", mode.Name()),
		zap.Int("round", p.Round))

	if mode.Name() == ModeCountry {
		target := r.country.Targets[p.Round]
		h.broadcastLocked(r, OutEnvelope{
			Event: EventSetTargetCountryDone,
			Payload: map[string]any{
				"target": map[string]any{
					"round":   p.Round,
					"country": target.Country,
					"code":    target.Code,
				},
			},
		})
		h.broadcastLocked(r, OutEnvelope{Event: EventStartedNewRound})
	}
	return nil
}

// HandleGuess routes a guess to the active mode, broadcasts the outcome,
// and re-runs the round completion check.
func (h *Hub) HandleGuess(s *Session, p GuessPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	mode, err := h.modeFor(r)
	if err != nil {
		return err
	}
	outcome, err := mode.HandleGuess(r, p)
	if err != nil {
		return err
	}

	switch mode.Name() {
	case ModePinpointing:
		h.broadcastLocked(r, OutEnvelope{
			Event:   outcome.Event,
			Payload: map[string]any{"userId": p.UserID},
		})
		// Round over when every connected player has a finished guess.
		if len(r.pinpointingRoundGuesses(p.Round)) == len(r.players) {
			h.endRoundLocked(r, p.Round)
		}
	case ModeCountry:
		h.broadcastLocked(r, OutEnvelope{
			Event:   outcome.Event,
			Payload: map[string]any{"guesses": r.countryRoundGuesses(p.Round)},
		})
		h.checkCountryRoundLocked(r, p.Round)
	}
	return nil
}

// checkCountryRoundLocked ends the round once every connected player is
// inactive: a recorded correct guess or all attempts spent, whichever comes
// first. Caller holds r.mu.
func (h *Hub) checkCountryRoundLocked(r *Room, round int) {
	country := CountryMode{}
	for _, p := range r.players {
		if !country.isInactive(r, p.User.ID, round) {
			return
		}
	}
	h.endRoundLocked(r, round)
}

// EndRound is the explicit round-end trigger from a client.
func (h *Hub) EndRound(s *Session, p RoundPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	h.endRoundLocked(r, p.Round)
	return nil
}

// endRoundLocked finishes round `round` exactly once: completion checks are
// re-evaluated after every guess and two players finishing back to back must
// not end the same round twice. Caller holds r.mu.
func (h *Hub) endRoundLocked(r *Room, round int) {
	if round <= r.game.RoundsPlayed {
		return
	}

	r.game.RoundsPlayed++
	r.game.IsRoundStarted = false
	r.game.IsRoundEnded = true
	r.stopRoundTimerLocked()

	h.log.Info("round ended",
		zap.String("room", r.ID),
		zap.Int("round", round),
		zap.Int("roundsPlayed", r.game.RoundsPlayed))

	switch r.settings.GameMode {
	case ModePinpointing:
		h.broadcastLocked(r, OutEnvelope{
			Event: EventPinpointingRoundEnd,
			Payload: map[string]any{
				"roundsPlayed": r.game.RoundsPlayed,
				"guesses":      r.pinpointingRoundGuesses(round),
			},
		})
	case ModeCountry:
		h.broadcastLocked(r, OutEnvelope{
			Event: EventCountryRoundEnd,
			Payload: map[string]any{
				"roundsPlayed": round,
				"guesses":      r.countryRoundGuesses(round),
			},
		})
	}
}

// EndGame broadcasts the full target history and guess list so clients can
// render the recap. State stays intact until an explicit backToRoom.
func (h *Hub) EndGame(s *Session, p RoomPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	mode, err := h.modeFor(r)
	if err != nil {
		return err
	}

	targets := mode.EndGame(r)
	r.game.IsGameEnded = true
	r.stopRoundTimerLocked()

	h.log.Info("game ended",
		zap.String("room", r.ID),
		zap.String("mode", mode.Name()),
		zap.Int("rounds", len(targets)))

	switch mode.Name() {
	case ModePinpointing:
		h.broadcastLocked(r, OutEnvelope{
			Event: EventGameEnded,
			Payload: map[string]any{
				"targets": targets,
				"guesses": r.pinpointing.Guesses,
			},
		})
	case ModeCountry:
		h.broadcastLocked(r, OutEnvelope{
			Event: EventCountryGameEnded,
			Payload: map[string]any{
				"targets": targets,
				"guesses": r.country.Guesses,
			},
		})
	}
	return nil
}

// BackToRoom clears all game and round data, keeping membership and
// settings, and broadcasts the cleared snapshot.
func (h *Hub) BackToRoom(s *Session, p RoomPayload) error {
	r, ok := h.lockRoom(p.RoomID)
	if !ok {
		return ErrRoomNotFound
	}
	defer r.mu.Unlock()

	r.stopRoundTimerLocked()
	r.reset()

	h.log.Info("room reset", zap.String("room", r.ID))

	h.broadcastLocked(r, OutEnvelope{
		Event: EventBackUsersToRoom,
		Payload: map[string]any{
			"room": map[string]any{
				"id":              r.ID,
				"adminId":         r.AdminID,
				"users":           r.users(),
				"settings":        r.settings,
				"gameState":       r.game,
				"countryMode":     r.country,
				"pinpointingMode": r.pinpointing,
			},
		},
	})
	return nil
}
