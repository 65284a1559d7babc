package game

import "sort"

// PinpointingMode is the map-pinpointing strategy. Guesses are coordinates;
// correctness is judged client-side by distance, never here.
type PinpointingMode struct{}

func (PinpointingMode) Name() string { return ModePinpointing }

// SetTarget copies the coordinates the admin staged for the round into the
// mode's own target map. Staging happens in a separate setTargetCords event,
// so a missing entry means the round was started out of order.
func (PinpointingMode) SetTarget(r *Room, p TargetPayload) error {
	cords, ok := r.game.TargetCoordinates[p.Round]
	if !ok {
		return ErrTargetNotStaged
	}
	r.pinpointing.Targets[p.Round] = cords
	return nil
}

// HandleGuess records a finish or retracts with an unfinish. A finish
// replaces any earlier record for the same (userId, round), so exactly one
// guess per pair exists at any time.
func (PinpointingMode) HandleGuess(r *Room, p GuessPayload) (GuessOutcome, error) {
	switch p.Type {
	case GuessTypeFinish:
		removePinpointingGuess(r, p.UserID, p.Round)
		r.pinpointing.Guesses = append(r.pinpointing.Guesses, PinpointingGuess{
			UserID:      p.UserID,
			Round:       p.Round,
			Coordinates: p.Coordinates,
		})
		return GuessOutcome{Event: EventPlayerFinishGuess}, nil
	case GuessTypeUnfinish:
		removePinpointingGuess(r, p.UserID, p.Round)
		return GuessOutcome{Event: EventPlayerUnFinishGuess}, nil
	default:
		return GuessOutcome{}, ErrUnknownGuessType
	}
}

// EndGame projects the target map to a round-ascending recap.
func (PinpointingMode) EndGame(r *Room) []RoundTarget {
	out := make([]RoundTarget, 0, len(r.pinpointing.Targets))
	for round, cords := range r.pinpointing.Targets {
		c := cords
		out = append(out, RoundTarget{Round: round, Coordinates: &c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

func removePinpointingGuess(r *Room, userID, round int) {
	kept := r.pinpointing.Guesses[:0]
	for _, g := range r.pinpointing.Guesses {
		if !(g.UserID == userID && g.Round == round) {
			kept = append(kept, g)
		}
	}
	r.pinpointing.Guesses = kept
}
