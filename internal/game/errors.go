package game

import "errors"

// Session errors. Handlers translate these into chat replies; none of them
// is fatal to the process.
var (
	// ErrAlreadyActive means the chat already has a running game.
	ErrAlreadyActive = errors.New("a game is already active in this chat")

	// ErrNoActiveGame means the chat has no running game.
	ErrNoActiveGame = errors.New("no active game in this chat")

	// ErrHintsExhausted means every available hint has been revealed.
	ErrHintsExhausted = errors.New("all hints already given")

	// ErrAttemptsExhausted means the user hit the per-game guess cap.
	ErrAttemptsExhausted = errors.New("maximum guesses reached for this game")
)
