package game

import "sort"

// CountryMode is the country-naming strategy. Guesses are country name+code
// pairs judged server-side against the exact round target.
type CountryMode struct{}

func (CountryMode) Name() string { return ModeCountry }

// SetTarget stores the round's country directly; country rounds begin as
// soon as the target exists.
func (CountryMode) SetTarget(r *Room, p TargetPayload) error {
	r.country.Targets[p.Round] = CountryTarget{Country: p.Country, Code: p.Code}
	return nil
}

// HandleGuess appends the attempt even when it is wrong; correctness is
// evaluated by the completion scan, not at insertion. Attempts beyond
// MaxCountryGuesses per (userId, round) are not recorded.
func (CountryMode) HandleGuess(r *Room, p GuessPayload) (GuessOutcome, error) {
	if countCountryGuesses(r, p.UserID, p.Round) < MaxCountryGuesses {
		r.country.Guesses = append(r.country.Guesses, CountryGuess{
			UserID:  p.UserID,
			Round:   p.Round,
			Country: p.Country,
			Code:    p.Code,
			Time:    p.Time,
		})
	}
	return GuessOutcome{Event: EventAddedCountryGuess}, nil
}

// EndGame projects the target map to a round-ascending recap.
func (CountryMode) EndGame(r *Room) []RoundTarget {
	out := make([]RoundTarget, 0, len(r.country.Targets))
	for round, t := range r.country.Targets {
		out = append(out, RoundTarget{Round: round, Country: t.Country, Code: t.Code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// isInactive reports whether a player no longer counts toward the round:
// either a recorded correct guess, or all attempts used. Caller holds r.mu.
func (CountryMode) isInactive(r *Room, userID, round int) bool {
	target, ok := r.country.Targets[round]
	attempts := 0
	for _, g := range r.country.Guesses {
		if g.UserID != userID || g.Round != round {
			continue
		}
		attempts++
		if ok && g.Country == target.Country && g.Code == target.Code {
			return true
		}
	}
	return attempts >= MaxCountryGuesses
}

func countCountryGuesses(r *Room, userID, round int) int {
	n := 0
	for _, g := range r.country.Guesses {
		if g.UserID == userID && g.Round == round {
			n++
		}
	}
	return n
}
