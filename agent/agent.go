package agent

import (
	"context"
	"kalah/experiments/metrics"
	"kalah/game"
)

type Agent[S any, A any] interface {
	// FindMove returns the action to play for state.CurrentPlayer and performance metrics (if collected) from the search
	FindMove(ctx context.Context, state game.State[S]) (A, metrics.SearchMetric, error)
}

type Result[A any] struct {
	Action A
	Metric metrics.SearchMetric
	Err    error
}

// Async runs FindMove on its own goroutine. The channel yields exactly one
// result and is then closed; cancelling ctx yields ctx.Err() without waiting
// for the search to finish.
func Async[S any, A any](ctx context.Context, a Agent[S, A], state game.State[S]) <-chan Result[A] {
	out := make(chan Result[A], 1)
	found := make(chan Result[A], 1)
	go func() {
		action, metric, err := a.FindMove(ctx, state)
		found <- Result[A]{Action: action, Metric: metric, Err: err}
	}()
	go func() {
		defer close(out)
		select {
		case result := <-found:
			out <- result
		case <-ctx.Done():
			out <- Result[A]{Err: ctx.Err()}
		}
	}()
	return out
}

func checkMovable[S any, A any](ctx context.Context, g game.Game[S, A], state game.State[S]) ([]A, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	actions := g.LegalActions(state)
	if len(actions) == 0 {
		return nil, game.ErrNoLegalMoves
	}
	return actions, nil
}
