package game

import "sync"

// Default room settings, matching what clients expect on createRoom.
const (
	DefaultMaxPlayers = 5
	DefaultRoundTime  = 180
	DefaultRounds     = 5

	// MaxCountryGuesses caps recorded attempts per player per round in
	// country mode.
	MaxCountryGuesses = 3
)

// Game mode names as they appear in room settings on the wire.
const (
	ModePinpointing = "Pinpointing"
	ModeCountry     = "Country guessr"

	DefaultGameDifficulty = "Standard Pinpointing"
)

// Coordinates is a map position in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// User is the resolved profile of a connected player. The core never sees
// credentials; profiles come from the join payload or a UserResolver.
type User struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Patch    string `json:"patch,omitempty"`
}

// Settings is the per-room rule set. Broadcast in full on every change.
type Settings struct {
	GameMode       string `json:"gameMode"`
	GameDifficulty string `json:"gameDifficulty,omitempty"`
	RoundTime      int    `json:"roundTime"`
	Rounds         int    `json:"rounds"`
	MaxPlayers     int    `json:"maxPlayers"`
}

// SettingsPatch is a partial settings update. Nil fields keep their current
// value; a set field fully replaces the old one (shallow merge).
type SettingsPatch struct {
	GameMode       *string `json:"gameMode"`
	GameDifficulty *string `json:"gameDifficulty"`
	RoundTime      *int    `json:"roundTime"`
	Rounds         *int    `json:"rounds"`
	MaxPlayers     *int    `json:"maxPlayers"`
}

// Apply merges the patch over s.
func (s *Settings) Apply(p SettingsPatch) {
	if p.GameMode != nil {
		s.GameMode = *p.GameMode
	}
	if p.GameDifficulty != nil {
		s.GameDifficulty = *p.GameDifficulty
	}
	if p.RoundTime != nil {
		s.RoundTime = *p.RoundTime
	}
	if p.Rounds != nil {
		s.Rounds = *p.Rounds
	}
	if p.MaxPlayers != nil {
		s.MaxPlayers = *p.MaxPlayers
	}
}

// GameState tracks where a room is in its game/round lifecycle.
type GameState struct {
	IsGameStarted  bool `json:"isGameStarted"`
	IsGameEnded    bool `json:"isGameEnded"`
	IsRoundStarted bool `json:"isRoundStarted"`
	IsRoundEnded   bool `json:"isRoundEnded"`
	RoundsPlayed   int  `json:"roundsPlayed"`

	// TargetCoordinates holds coordinates staged per round by the admin,
	// before the pinpointing mode is told to start the round.
	TargetCoordinates map[int]Coordinates `json:"targetCoordinates"`
}

// PinpointingGuess is a finished map guess. At most one exists per
// (userId, round); unfinish removes it.
type PinpointingGuess struct {
	UserID      int         `json:"userId"`
	Round       int         `json:"round"`
	Coordinates Coordinates `json:"coordinates"`
}

// CountryGuess is one recorded country attempt. Incorrect attempts are kept
// too, up to MaxCountryGuesses per (userId, round).
type CountryGuess struct {
	UserID  int    `json:"userId"`
	Round   int    `json:"round"`
	Country string `json:"country"`
	Code    string `json:"code"`
	Time    *int   `json:"time"`
}

// CountryTarget is the ground truth for one country-mode round.
type CountryTarget struct {
	Country string `json:"country"`
	Code    string `json:"code"`
}

// PinpointingState is the pinpointing mode's per-room sub-state.
type PinpointingState struct {
	Targets map[int]Coordinates `json:"targets"`
	Guesses []PinpointingGuess  `json:"guesses"`
}

// CountryState is the country mode's per-room sub-state.
type CountryState struct {
	Targets map[int]CountryTarget `json:"targets"`
	Guesses []CountryGuess        `json:"guesses"`
}

// Player binds a connected session to a user identity within one room.
type Player struct {
	Session *Session
	User    User
}

// Room is one isolated game instance. Both mode sub-states exist on every
// room; only the active mode's state is populated.
//
// All fields below mu are guarded by it. The hub locks a room for the whole
// of an event's handling, including the resulting broadcast, so per room
// every mutation and its broadcast are atomic and ordered.
type Room struct {
	ID      string
	AdminID int

	mu          sync.Mutex
	closed      bool
	players     map[string]*Player // session id → player
	settings    Settings
	game        GameState
	pinpointing PinpointingState
	country     CountryState
	timer       *roundTimer
}

func newRoom(id string, adminID int) *Room {
	return &Room{
		ID:      id,
		AdminID: adminID,
		players: make(map[string]*Player),
		settings: Settings{
			GameMode:       ModePinpointing,
			GameDifficulty: DefaultGameDifficulty,
			RoundTime:      DefaultRoundTime,
			Rounds:         DefaultRounds,
			MaxPlayers:     DefaultMaxPlayers,
		},
		game: GameState{
			TargetCoordinates: make(map[int]Coordinates),
		},
		pinpointing: PinpointingState{Targets: make(map[int]Coordinates)},
		country:     CountryState{Targets: make(map[int]CountryTarget)},
	}
}

// users returns the current member profiles. Caller holds r.mu.
func (r *Room) users() []User {
	out := make([]User, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.User)
	}
	return out
}

// reset clears all game and round data but keeps membership and settings.
// Caller holds r.mu.
func (r *Room) reset() {
	r.game.IsGameStarted = false
	r.game.IsGameEnded = false
	r.game.IsRoundStarted = false
	r.game.IsRoundEnded = false
	r.game.RoundsPlayed = 0
	r.game.TargetCoordinates = make(map[int]Coordinates)

	r.pinpointing.Targets = make(map[int]Coordinates)
	r.pinpointing.Guesses = nil
	r.country.Targets = make(map[int]CountryTarget)
	r.country.Guesses = nil
}

// pruneGuesses drops every guess a departing user left behind, in both
// modes, so completion scans are not skewed by ghost guesses. Caller holds
// r.mu.
func (r *Room) pruneGuesses(userID int) {
	pins := r.pinpointing.Guesses[:0]
	for _, g := range r.pinpointing.Guesses {
		if g.UserID != userID {
			pins = append(pins, g)
		}
	}
	r.pinpointing.Guesses = pins

	countries := r.country.Guesses[:0]
	for _, g := range r.country.Guesses {
		if g.UserID != userID {
			countries = append(countries, g)
		}
	}
	r.country.Guesses = countries
}

// pinpointingRoundGuesses returns the guesses recorded for one round.
// Caller holds r.mu.
func (r *Room) pinpointingRoundGuesses(round int) []PinpointingGuess {
	out := make([]PinpointingGuess, 0)
	for _, g := range r.pinpointing.Guesses {
		if g.Round == round {
			out = append(out, g)
		}
	}
	return out
}

// countryRoundGuesses returns the attempts recorded for one round. Caller
// holds r.mu.
func (r *Room) countryRoundGuesses(round int) []CountryGuess {
	out := make([]CountryGuess, 0)
	for _, g := range r.country.Guesses {
		if g.Round == round {
			out = append(out, g)
		}
	}
	return out
}
