package agent

import (
	"context"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/searcher"
	"math"
	"sync"

	"golang.org/x/exp/rand"
)

type samplingAgent[S any, A any] struct {
	game        game.Game[S, A]
	temperature float64
	options     []searcher.Option
	mu          sync.Mutex
	rng         *rand.Rand
}

// NewSampling returns an agent that scores every root action with a full
// minimax search and samples from the softmax of the scores. Lower temperatures
// play closer to the best action.
func NewSampling[S any, A any](g game.Game[S, A], temperature float64, seed uint64, options ...searcher.Option) Agent[S, A] {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &samplingAgent[S, A]{
		game:        g,
		temperature: temperature,
		options:     options,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *samplingAgent[S, A]) FindMove(ctx context.Context, state game.State[S]) (A, metrics.SearchMetric, error) {
	if _, err := checkMovable(ctx, a.game, state); err != nil {
		var zero A
		return zero, metrics.SearchMetric{}, err
	}

	m := searcher.NewMinimax(a.game, a.options...)
	scored, metric := m.Search(state, state.CurrentPlayer)
	policy := softmax(scored, a.temperature)

	a.mu.Lock()
	i := sample(policy, a.rng.Float64())
	a.mu.Unlock()

	metric.Score = scored[i].Score
	return scored[i].Action, metric, nil
}

func softmax[A any](scored []searcher.Scored[A], temperature float64) []float64 {
	// Shift by the best score so decided games do not overflow
	best := math.Inf(-1)
	for _, s := range scored {
		best = max(best, s.Score)
	}
	sum := 0.0
	policy := make([]float64, len(scored))
	for i, s := range scored {
		policy[i] = math.Exp((s.Score - best) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
