package game

import "errors"

// Validation failures are recovered locally: the coordinator reports them to
// the offending connection as an "error" event and leaves state untouched.
var (
	ErrRoomNotFound     = errors.New("room does not exist")
	ErrRoomFull         = errors.New("room is full")
	ErrNotAuthorized    = errors.New("only the room creator can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)
