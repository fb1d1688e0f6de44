package game

import "errors"

// Queue errors
var (
	ErrAlreadyQueued = errors.New("already in matchmaking queue")
	ErrWaitTimeout   = errors.New("no opponent found in time")
	ErrWaitCancelled = errors.New("wait cancelled")
)

// Room errors
var (
	ErrRoomFull      = errors.New("room is full")
	ErrWrongState    = errors.New("action not allowed in current state")
	ErrGameNotActive = errors.New("game is not active")
)

// Othello errors
var (
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidMove  = errors.New("invalid move")
	ErrGameFinished = errors.New("game is already over")
)
