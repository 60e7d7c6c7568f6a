package engine

import (
	"context"
	"fmt"
	"kalah/agent"
	"kalah/experiments/metrics"
	"kalah/game"
	"time"

	"github.com/rs/zerolog/log"
)

type Option func(s *settings)

type settings struct {
	maxTurns int
	starting game.PlayerID
}

func WithMaxTurns(turns int) Option {
	return func(s *settings) {
		if turns > 0 {
			s.maxTurns = turns
		}
	}
}

// WithStartingPlayer hands the first move to player instead of game.First.
func WithStartingPlayer(player game.PlayerID) Option {
	return func(s *settings) {
		if player.Valid() {
			s.starting = player
		}
	}
}

// Engine plays one game between two agents, indexed by the seat they occupy.
type Engine[S any, A any] struct {
	game    game.Game[S, A]
	agents  [2]agent.Agent[S, A]
	state   game.State[S]
	updates []game.Update[S, A]
	settings
}

var _ Runner = (*Engine[int, int])(nil)

func New[S any, A any](g game.Game[S, A], agents [2]agent.Agent[S, A], options ...Option) *Engine[S, A] {
	e := &Engine[S, A]{
		game:   g,
		agents: agents,
		settings: settings{
			maxTurns: MaxTurns,
			starting: game.First,
		},
	}
	for _, option := range options {
		option(&e.settings)
	}
	e.state = g.Setup()
	e.state.CurrentPlayer = e.starting
	return e
}

func (e *Engine[S, A]) State() game.State[S] {
	return e.state
}

// Updates lists every action played so far, in order.
func (e *Engine[S, A]) Updates() []game.Update[S, A] {
	return e.updates
}

// Run executes the entire game loop until the game ends.
func (e *Engine[S, A]) Run(ctx context.Context) (Result, error) {
	log.Debug().Msgf("%s is starting", e.state.CurrentPlayer)

	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.state.CurrentPlayer),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	// Loop until the game ends
	turnCount := 1
	for !e.state.Ended && turnCount <= e.maxTurns {
		player := e.state.CurrentPlayer
		action, searchMetric, err := e.agents[player].FindMove(ctx, e.state)
		if err != nil {
			return Result{}, fmt.Errorf("%s failed to find a move on turn %d: %w", player, turnCount, err)
		}
		if !game.IsLegal(e.game, e.state, action) {
			return Result{}, fmt.Errorf("%s chose %v on turn %d: %w", player, action, turnCount, game.ErrIllegalAction)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turnCount,
			Player:       int(player),
			Action:       fmt.Sprint(action),
			Hash:         game.Hash(e.game, e.state),
			SearchMetric: searchMetric,
		})

		e.state = e.game.Reduce(e.state, action)
		e.updates = append(e.updates, game.Update[S, A]{
			Player: player,
			Action: action,
			State:  e.state,
			Hash:   game.Hash(e.game, e.state),
		})
		log.Debug().Int("turn", turnCount).Msgf("%s played %v", player, action)
		turnCount++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	winner, decided := e.game.Winner(e.state)
	if decided {
		gameMetric.Winner = winner.String()
		log.Debug().Msgf("game ended after %d moves with winner %s", gameMetric.TotalMoves, winner)
	} else if e.state.Ended {
		log.Debug().Msgf("game ended after %d moves in a draw", gameMetric.TotalMoves)
	} else {
		log.Warn().Msgf("stopped after %d turns with no result", e.maxTurns)
	}

	return Result{
		Winner:  winner,
		Decided: decided,
		Game:    gameMetric,
		Moves:   moveMetrics,
	}, nil
}
