package agent

import (
	"context"
	"kalah/experiments/metrics"
	"kalah/game"
	"sync"

	"golang.org/x/exp/rand"
)

type randomAgent[S any, A any] struct {
	game game.Game[S, A]
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewRandom returns an agent that picks uniformly among the legal actions.
func NewRandom[S any, A any](g game.Game[S, A], seed uint64) Agent[S, A] {
	return &randomAgent[S, A]{
		game: g,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent[S, A]) FindMove(ctx context.Context, state game.State[S]) (A, metrics.SearchMetric, error) {
	actions, err := checkMovable(ctx, a.game, state)
	if err != nil {
		var zero A
		return zero, metrics.SearchMetric{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{}, nil
}
