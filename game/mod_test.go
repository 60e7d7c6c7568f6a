package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type coin struct{}

// coin is a one-move game: the first player calls heads or tails and wins on heads.
func (coin) Setup() State[string] { return State[string]{Snapshot: "start"} }

func (coin) LegalActions(state State[string]) []string {
	if state.Ended {
		return nil
	}
	return []string{"heads", "tails"}
}

func (coin) Reduce(state State[string], action string) State[string] {
	if state.Ended {
		return state
	}
	return State[string]{CurrentPlayer: Second, Ended: true, Snapshot: action}
}

func (coin) Winner(state State[string]) (PlayerID, bool) {
	if !state.Ended {
		return 0, false
	}
	if state.Snapshot == "heads" {
		return First, true
	}
	return Second, true
}

func (coin) Evaluate(state State[string], me PlayerID) float64 { return 0 }

type hashedCoin struct{ coin }

func (hashedCoin) Hash(state State[string]) uint64 { return uint64(len(state.Snapshot)) }

func TestPlayerID(t *testing.T) {
	require.Equal(t, Second, First.Other())
	require.Equal(t, First, Second.Other())
	require.Equal(t, "Player1", First.String())
	require.Equal(t, "Player2", Second.String())
	require.True(t, Second.Valid())
	require.False(t, PlayerID(2).Valid())
	require.False(t, PlayerID(-1).Valid())
}

func TestIsLegal(t *testing.T) {
	var g Game[string, string] = coin{}
	state := g.Setup()
	require.True(t, IsLegal(g, state, "tails"))
	require.False(t, IsLegal(g, state, "edge"))
	require.False(t, IsLegal(g, g.Reduce(state, "heads"), "heads"))
}

func TestWithEvaluation(t *testing.T) {
	var g Game[string, string] = hashedCoin{}
	scored := WithEvaluation(g, func(state State[string], me PlayerID) float64 {
		if me == First {
			return 7
		}
		return -7
	})

	state := scored.Setup()
	require.Equal(t, 7.0, scored.Evaluate(state, First))
	require.Equal(t, -7.0, scored.Evaluate(state, Second))
	require.Equal(t, []string{"heads", "tails"}, scored.LegalActions(state))
	// Hashing survives the wrapper
	require.Equal(t, uint64(5), Hash(scored, state))
	require.Zero(t, Hash[string, string](coin{}, state))
}
