package gamemaster

import (
	"context"
	"fmt"
	"kalah/game"
	"sync"

	"github.com/rs/zerolog/log"
)

type Session[S any, A any] struct {
	game  game.Game[S, A]
	mu    sync.Mutex
	state game.State[S]
	round uint64
	feeds []*feed[S, A]
}

var _ Engine[int, int] = (*Session[int, int])(nil)

func NewSession[S any, A any](g game.Game[S, A]) *Session[S, A] {
	return &Session[S, A]{
		game:  g,
		state: g.Setup(),
	}
}

func (s *Session[S, A]) Init() (game.State[S], uint64, UpdateGetter[S, A]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := newFeed[S, A]()
	s.feeds = append(s.feeds, f)
	return s.state, s.round, f.next
}

func (s *Session[S, A]) State() game.State[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session[S, A]) Play(player game.PlayerID, action A) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play(player, action)
}

func (s *Session[S, A]) PlayIn(round uint64, player game.PlayerID, action A) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round != s.round {
		return fmt.Errorf("%s played into round %d during round %d: %w", player, round, s.round, ErrStaleRound)
	}
	return s.play(player, action)
}

func (s *Session[S, A]) play(player game.PlayerID, action A) error {
	if s.state.Ended {
		return game.ErrGameOver
	}
	if player != s.state.CurrentPlayer {
		return fmt.Errorf("%s cannot move while %s is to move: %w", player, s.state.CurrentPlayer, ErrNotYourTurn)
	}
	if !game.IsLegal(s.game, s.state, action) {
		return fmt.Errorf("%s cannot play %v: %w", player, action, game.ErrIllegalAction)
	}

	s.state = s.game.Reduce(s.state, action)
	log.Info().Msgf("%s played %v", player, action)
	if s.state.Ended {
		log.Info().Msg("game over")
	}
	s.publish(game.Update[S, A]{
		Player: player,
		Action: action,
		State:  s.state,
		Hash:   game.Hash(s.game, s.state),
	})
	return nil
}

func (s *Session[S, A]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.game.Setup()
	s.round++
	log.Info().Msgf("new game, round %d", s.round)
	s.publish(game.Update[S, A]{
		Player: s.state.CurrentPlayer,
		State:  s.state,
		Hash:   game.Hash(s.game, s.state),
		Reset:  true,
	})
}

func (s *Session[S, A]) publish(u game.Update[S, A]) {
	for _, f := range s.feeds {
		f.push(u)
	}
}

// feed is an unbounded queue of updates with a single reader.
type feed[S any, A any] struct {
	mu     sync.Mutex
	items  []game.Update[S, A]
	signal chan struct{}
}

func newFeed[S any, A any]() *feed[S, A] {
	return &feed[S, A]{signal: make(chan struct{}, 1)}
}

func (f *feed[S, A]) push(u game.Update[S, A]) {
	f.mu.Lock()
	f.items = append(f.items, u)
	f.mu.Unlock()
	select {
	case f.signal <- struct{}{}:
	default:
	}
}

func (f *feed[S, A]) next(ctx context.Context) (game.Update[S, A], error) {
	for {
		f.mu.Lock()
		if len(f.items) > 0 {
			u := f.items[0]
			f.items = f.items[1:]
			f.mu.Unlock()
			return u, nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return game.Update[S, A]{}, ctx.Err()
		case <-f.signal:
		}
	}
}
