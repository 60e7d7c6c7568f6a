package gamemaster

import (
	"context"
	"errors"
	"kalah/game"
)

var (
	ErrNotYourTurn = errors.New("not your turn")
	// ErrStaleRound rejects a move aimed at a game that has since been reset.
	ErrStaleRound = errors.New("game was reset")
)

// UpdateGetter blocks until the next update is available or ctx is done.
type UpdateGetter[S any, A any] func(ctx context.Context) (game.Update[S, A], error)

// Engine referees a live game that several parties play through.
type Engine[S any, A any] interface {
	// Init returns the current state, the round it belongs to and a feed of
	// every update after it. Each reset starts a new round.
	Init() (game.State[S], uint64, UpdateGetter[S, A])
	Play(player game.PlayerID, action A) error
	// PlayIn is Play restricted to the given round
	PlayIn(round uint64, player game.PlayerID, action A) error
	// Reset replaces the game with a fresh one
	Reset()
}
