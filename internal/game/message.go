package game

import "encoding/json"

// Inbound event names. The set is closed; anything else gets an explicit
// error reply.
const (
	EventJoinRoom       = "joinRoom"
	EventUpdateSettings = "updateSettings"
	EventCreateRoom     = "createRoom"
	EventStartGame      = "startGame"
	EventEndGame        = "endGame"
	EventSetTargetCords = "setTargetCords"
	EventSetTarget      = "setTarget"
	EventHandleGuess    = "handleGuess"
	EventEndRound       = "endRound"
	EventBackToRoom     = "backToRoom"
)

// Outbound event names. Spellings are part of the wire contract the clients
// already speak, historical typos included.
const (
	EventRoomCreated          = "roomCreated"
	EventNewUserJoined        = "newUserJoined"
	EventUserLeaveSuccess     = "userLeaveSuccess"
	EventRoomClosed           = "roomClosed"
	EventSettingsUpdated      = "settingsUpdated"
	EventGameStarted          = "gameStarted"
	EventSetTargetCordsDone   = "setedTargetCords"
	EventSetTargetCountryDone = "setedTargetCountry"
	EventStartedNewRound      = "startedNewRound"
	EventPlayerFinishGuess    = "playerFinishGuess"
	EventPlayerUnFinishGuess  = "playerUnFinishGuess"
	EventAddedCountryGuess    = "addedCountryGuess"
	EventPinpointingRoundEnd  = "endedPoinpointingModeRound"
	EventCountryRoundEnd      = "endCountryModeRound"
	EventGameEnded            = "gameEnded"
	EventCountryGameEnded     = "endedCountryModeGame"
	EventBackUsersToRoom      = "backUsersToRoom"
	EventError                = "error"
)

// Envelope is the inbound message frame. Payload stays raw until the event
// name picks a concrete shape.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Admin   int             `json:"admin,omitempty"`
}

// OutEnvelope is the outbound frame. Error replies carry Message instead of
// a payload.
type OutEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

// JoinRoomPayload carries the joining user's resolved profile.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	User   User   `json:"user"`
}

type UpdateSettingsPayload struct {
	RoomID   string        `json:"roomId"`
	Settings SettingsPatch `json:"settings"`
}

// RoomPayload is the common shape for events that only address a room.
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type SetTargetCordsPayload struct {
	RoomID string      `json:"roomId"`
	Cords  Coordinates `json:"cords"`
	Round  int         `json:"round"`
}

// TargetPayload covers both modes; Country/Code are only set for country
// rounds.
type TargetPayload struct {
	RoomID  string `json:"roomId"`
	Round   int    `json:"round"`
	Country string `json:"country,omitempty"`
	Code    string `json:"code,omitempty"`
}

// GuessPayload covers both modes. Type ("finishGuess"/"unFinishGuess") and
// Coordinates belong to pinpointing; Country, Code and Time to country mode.
type GuessPayload struct {
	RoomID      string      `json:"roomId"`
	Round       int         `json:"round"`
	UserID      int         `json:"userId"`
	Type        string      `json:"type,omitempty"`
	Coordinates Coordinates `json:"coordinates,omitempty"`
	Country     string      `json:"country,omitempty"`
	Code        string      `json:"code,omitempty"`
	Time        *int        `json:"time,omitempty"`
}

type RoundPayload struct {
	RoomID string `json:"roomId"`
	Round  int    `json:"round"`
}

// Pinpointing guess types.
const (
	GuessTypeFinish   = "finishGuess"
	GuessTypeUnfinish = "unFinishGuess"
)
