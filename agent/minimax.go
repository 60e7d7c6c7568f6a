package agent

import (
	"context"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/searcher"
)

type minimaxAgent[S any, A any] struct {
	game    game.Game[S, A]
	options []searcher.Option
}

// NewMinimax returns an agent that plays the alpha-beta choice for whoever is
// to move.
func NewMinimax[S any, A any](g game.Game[S, A], options ...searcher.Option) Agent[S, A] {
	return minimaxAgent[S, A]{game: g, options: options}
}

func (a minimaxAgent[S, A]) FindMove(ctx context.Context, state game.State[S]) (A, metrics.SearchMetric, error) {
	if _, err := checkMovable(ctx, a.game, state); err != nil {
		var zero A
		return zero, metrics.SearchMetric{}, err
	}
	// A searcher per call keeps the agent safe for concurrent use
	m := searcher.NewMinimax(a.game, a.options...)
	action, metric := m.FindMove(state, state.CurrentPlayer)
	return action, metric, nil
}
