// Package kalah implements the rules of six-pit Kalah as a game.Game.
package kalah

import (
	"kalah/game"
)

// Spec implements game.Game for Kalah. It holds no state.
type Spec struct{}

// Game is the Kalah instantiation of game.Game.
type Game = game.Game[Snapshot, Action]

var (
	_ Game                  = Spec{}
	_ game.Hasher[Snapshot] = Spec{}
)

// New returns the standard rule set behind the Game interface, which lets
// generic callers infer both type parameters.
func New() Game {
	return Spec{}
}

// NewSpec returns the standard four-seed, six-pit rule set.
func NewSpec() Spec {
	return Spec{}
}

// Setup returns the opening position: player one to move, four stones per pit.
func (Spec) Setup() State {
	var snapshot Snapshot
	for _, p := range game.Players {
		for i := range snapshot.Pits[p] {
			snapshot.Pits[p][i] = SeedsPerPit
		}
	}
	return State{
		CurrentPlayer: game.First,
		Ended:         false,
		Snapshot:      snapshot,
	}
}

// LegalActions returns one play per non-empty pit of the current player, in
// ascending pit order.
func (Spec) LegalActions(state State) []Action {
	if state.Ended || !state.CurrentPlayer.Valid() {
		return nil
	}
	actions := make([]Action, 0, NumPits)
	for pit, stones := range state.Snapshot.Pits[state.CurrentPlayer] {
		if stones > 0 {
			actions = append(actions, Play(pit))
		}
	}
	return actions
}

// Reduce sows the chosen pit and returns the resulting state. Anything that is
// not a legal play leaves the state as it is.
func (Spec) Reduce(state State, action Action) State {
	if state.Ended || !state.CurrentPlayer.Valid() {
		return state
	}
	pit, ok := action.Pit()
	if !ok {
		return state
	}

	me := state.CurrentPlayer
	other := me.Other()
	snapshot := state.Snapshot

	stones := snapshot.Pits[me][pit]
	if stones <= 0 {
		return state
	}
	snapshot.Pits[me][pit] = 0

	side, idx := me, pit+1
	extraTurn := false
	for stones > 0 {
		if idx == NumPits {
			// Only the mover's own store collects; the opponent's is skipped
			if side == me {
				snapshot.Stores[me]++
				stones--
				if stones == 0 {
					extraTurn = true
					break
				}
			}
			side, idx = side.Other(), 0
			continue
		}

		snapshot.Pits[side][idx]++
		stones--

		if stones == 0 && side == me && snapshot.Pits[me][idx] == 1 {
			opposite := NumPits - 1 - idx
			if captured := snapshot.Pits[other][opposite]; captured > 0 {
				snapshot.Pits[other][opposite] = 0
				snapshot.Pits[me][idx] = 0
				snapshot.Stores[me] += captured + 1
			}
		}
		idx++
	}

	ended := snapshot.sweep()

	next := other
	if extraTurn {
		next = me
	}
	return State{
		CurrentPlayer: next,
		Ended:         ended,
		Snapshot:      snapshot,
	}
}

// Winner compares the stores of an ended game. Equal stores are a draw.
func (Spec) Winner(state State) (game.PlayerID, bool) {
	if !state.Ended {
		return 0, false
	}
	first, second := state.Snapshot.Stores[game.First], state.Snapshot.Stores[game.Second]
	switch {
	case first > second:
		return game.First, true
	case second > first:
		return game.Second, true
	default:
		return 0, false
	}
}

// Evaluate scores a position for me. See EvaluateStoreLead.
func (Spec) Evaluate(state State, me game.PlayerID) float64 {
	return EvaluateStoreLead(state, me)
}
