package searcher

import (
	"kalah/experiments/metrics"
	"kalah/game"
	"math"

	"github.com/rs/zerolog/log"
)

type Option func(s *settings)

type settings struct {
	depth     int
	turnAware bool
	metrics   metrics.Collector
}

// Scored pairs a root action with the value the search assigned to it.
type Scored[A any] struct {
	Action A
	Score  float64
}

type Minimax[S any, A any] struct {
	game game.Game[S, A]
	settings
}

func WithDepth(depth int) Option {
	return func(s *settings) {
		s.depth = max(depth, 1)
	}
}

// WithTurnAwareLayers makes a layer maximize whenever the searching player is
// the one to move, instead of strictly alternating by ply. The two only differ
// for games with extra turns.
func WithTurnAwareLayers() Option {
	return func(s *settings) {
		s.turnAware = true
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

func NewMinimax[S any, A any](g game.Game[S, A], options ...Option) *Minimax[S, A] {
	m := &Minimax[S, A]{ // Default values
		game: g,
		settings: settings{
			depth:   DefaultDepth,
			metrics: metrics.NewDummyCollector(),
		},
	}
	for _, option := range options {
		option(&m.settings)
	}
	return m
}

// BestMove runs a depth-limited alpha-beta search and returns the action that
// is best for me. Ties go to the earliest action in legal order.
func BestMove[S any, A any](g game.Game[S, A], state game.State[S], me game.PlayerID, depth int) A {
	action, _ := NewMinimax(g, WithDepth(depth)).FindMove(state, me)
	return action
}

func (m *Minimax[S, A]) Depth() int {
	return m.depth
}

// FindMove panics with game.ErrNoLegalMoves if state offers nothing to play.
func (m *Minimax[S, A]) FindMove(state game.State[S], me game.PlayerID) (A, metrics.SearchMetric) {
	actions := m.game.LegalActions(state)
	if len(actions) == 0 {
		panic(game.ErrNoLegalMoves)
	}

	m.metrics.Start(m.depth)
	best := actions[0]
	bestScore := math.Inf(-1)
	alpha := math.Inf(-1)
	for _, action := range actions {
		child := m.game.Reduce(state, action)
		score := m.value(child, me, m.depth-1, alpha, math.Inf(1), m.maximizing(child, me, true))
		log.Debug().Int("depth", m.depth).Float64("score", score).Msgf("Scored root action %v", action)
		if score > bestScore {
			best, bestScore = action, score
		}
		alpha = max(alpha, bestScore)
	}
	metric := m.metrics.Complete()
	metric.Score = bestScore
	return best, metric
}

// Search scores every root action with a full window, so each score is exact
// rather than a bound. Results follow legal action order. The metric's score is
// the best of them.
func (m *Minimax[S, A]) Search(state game.State[S], me game.PlayerID) ([]Scored[A], metrics.SearchMetric) {
	actions := m.game.LegalActions(state)
	scored := make([]Scored[A], 0, len(actions))

	m.metrics.Start(m.depth)
	for _, action := range actions {
		child := m.game.Reduce(state, action)
		score := m.value(child, me, m.depth-1, math.Inf(-1), math.Inf(1), m.maximizing(child, me, true))
		scored = append(scored, Scored[A]{Action: action, Score: score})
	}
	metric := m.metrics.Complete()
	for i, s := range scored {
		if i == 0 || s.Score > metric.Score {
			metric.Score = s.Score
		}
	}
	return scored, metric
}

// maximizing decides the role of the layer at child. parentMax is the role of
// the layer that produced it.
func (m *Minimax[S, A]) maximizing(child game.State[S], me game.PlayerID, parentMax bool) bool {
	if m.turnAware {
		return child.CurrentPlayer == me
	}
	return !parentMax
}

func (m *Minimax[S, A]) value(state game.State[S], me game.PlayerID, depth int, alpha, beta float64, maximizing bool) float64 {
	m.metrics.AddNode()

	if score, ok := m.outcome(state, me); ok {
		m.metrics.AddTerminal()
		return score
	}

	actions := m.game.LegalActions(state)
	if depth <= 0 || len(actions) == 0 {
		m.metrics.AddLeaf()
		return m.game.Evaluate(state, me)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, action := range actions {
			child := m.game.Reduce(state, action)
			best = max(best, m.value(child, me, depth-1, alpha, beta, m.maximizing(child, me, true)))
			if best >= beta {
				m.metrics.AddCutoff()
				return best
			}
			alpha = max(alpha, best)
		}
		return best
	}

	best := math.Inf(1)
	for _, action := range actions {
		child := m.game.Reduce(state, action)
		best = min(best, m.value(child, me, depth-1, alpha, beta, m.maximizing(child, me, false)))
		if best <= alpha {
			m.metrics.AddCutoff()
			return best
		}
		beta = min(beta, best)
	}
	return best
}

func (m *Minimax[S, A]) outcome(state game.State[S], me game.PlayerID) (float64, bool) {
	if winner, ok := m.game.Winner(state); ok {
		if winner == me {
			return WinScore, true
		}
		return LossScore, true
	}
	if state.Ended {
		return DrawScore, true
	}
	return 0, false
}
