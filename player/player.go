package player

import (
	"context"
	"errors"
	"fmt"
	"kalah/agent"
	"kalah/game"
	"kalah/gamemaster"
	"time"

	"github.com/rs/zerolog/log"
)

type Controller interface {
	// Run plays until ctx is done
	Run(ctx context.Context) error
}

type botController[S any, A any] struct {
	seat   game.PlayerID
	agent  agent.Agent[S, A]
	engine gamemaster.Engine[S, A]
	delay  time.Duration
}

// NewBot returns a controller that occupies seat on engine and answers every
// turn of that seat with the agent's move, after waiting delay.
func NewBot[S any, A any](seat game.PlayerID, a agent.Agent[S, A], engine gamemaster.Engine[S, A], delay time.Duration) Controller {
	return &botController[S, A]{
		seat:   seat,
		agent:  a,
		engine: engine,
		delay:  delay,
	}
}

func (b *botController[S, A]) Run(ctx context.Context) error {
	state, round, getUpdate := b.engine.Init()
	for {
		if !state.Ended && state.CurrentPlayer == b.seat {
			if err := b.takeTurn(ctx, round, state); err != nil {
				return ignoreDone(err)
			}
		}
		u, err := getUpdate(ctx)
		if err != nil {
			return ignoreDone(err)
		}
		if u.Reset {
			round++
		}
		state = u.State
	}
}

// takeTurn answers state, which belongs to round. A move found for a round that
// was reset in the meantime is dropped.
func (b *botController[S, A]) takeTurn(ctx context.Context, round uint64, state game.State[S]) error {
	select {
	case <-time.After(b.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	result := <-agent.Async(ctx, b.agent, state)
	if result.Err != nil {
		return fmt.Errorf("%s failed to find a move: %w", b.seat, result.Err)
	}

	err := b.engine.PlayIn(round, b.seat, result.Action)
	if errors.Is(err, gamemaster.ErrStaleRound) || errors.Is(err, gamemaster.ErrNotYourTurn) || errors.Is(err, game.ErrGameOver) {
		// The game moved on while searching
		log.Debug().Err(err).Msgf("%s dropped a stale move", b.seat)
		return nil
	}
	return err
}

func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
