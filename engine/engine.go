package engine

import (
	"context"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/meta"
)

const MaxTurns = meta.MAX_TURNS

type Result struct {
	Winner  game.PlayerID
	Decided bool // False on a draw or when the turn limit was reached
	Game    metrics.GameMetric
	Moves   []metrics.MoveMetric
}

type Runner interface {
	// Run plays a game till it ends or a max number of turns is reached
	Run(ctx context.Context) (Result, error)
}
