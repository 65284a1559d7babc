package game

import "errors"

// Sentinel errors for the handler taxonomy. None are fatal; each is
// contained to the single message being handled and turned into an error
// reply to the sender.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrUnknownGameMode  = errors.New("unknown game mode")
	ErrUnknownGuessType = errors.New("unknown guess type")
	ErrTargetNotStaged  = errors.New("target coordinates not staged for round")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrMalformedMessage = errors.New("malformed message")
)

// wireMessage maps an error to the exact client-facing text. The first four
// strings are frozen protocol; clients match on them.
func wireMessage(err error) string {
	switch {
	case errors.Is(err, ErrMalformedMessage):
		return "Invalid JSON format"
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, ErrRoomFull):
		return "Room is full"
	case errors.Is(err, ErrUnknownGameMode):
		return "Unknown game mode"
	case errors.Is(err, ErrUnknownGuessType):
		return "Unknown guess type"
	case errors.Is(err, ErrTargetNotStaged):
		return "Target coordinates are not set for this round"
	case errors.Is(err, ErrNotAuthorized):
		return "Not authorized"
	default:
		return err.Error()
	}
}
