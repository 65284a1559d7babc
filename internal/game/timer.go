package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// roundTimer force-ends a round that nobody finishes. roundTime is advisory
// for clients; the server-side timer is opt-in (WithRoundTimer) and fires
// through the same locked per-room path as any client event, so a timer
// expiry is just another serialized event.
type roundTimer struct {
	round  int
	cancel context.CancelFunc
}

// startRoundTimerLocked arms the timer for the round just started,
// replacing any previous one. Caller holds r.mu.
func (h *Hub) startRoundTimerLocked(r *Room, round int) {
	if !h.roundTimerEnabled || r.settings.RoundTime <= 0 {
		return
	}
	r.stopRoundTimerLocked()

	ctx, cancel := context.WithCancel(context.Background())
	r.timer = &roundTimer{round: round, cancel: cancel}
	duration := r.roundDuration()

	h.log.Debug("round timer armed",
		zap.String("room", r.ID),
		zap.Int("round", round),
		zap.Duration("duration", duration))

	go func() {
		t := time.NewTimer(duration)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			h.expireRound(r.ID, round)
		}
	}()
}

// stopRoundTimerLocked disarms the current timer, if any. Caller holds r.mu.
func (r *Room) stopRoundTimerLocked() {
	if r.timer != nil {
		r.timer.cancel()
		r.timer = nil
	}
}

// expireRound is the timer callback. The room may have ended the round, been
// reset, or been deleted while the timer slept, so everything is re-checked
// under the room lock.
func (h *Hub) expireRound(roomID string, round int) {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return
	}
	defer r.mu.Unlock()

	if r.timer == nil || r.timer.round != round {
		return
	}
	r.timer = nil

	h.log.Info("round timer expired",
		zap.String("room", r.ID),
		zap.Int("round", round))

	h.endRoundLocked(r, round)
}
