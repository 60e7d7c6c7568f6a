package kalah

import (
	"encoding/json"
	"kalah/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newState(player game.PlayerID, stores [2]int, first, second [NumPits]int) State {
	return State{
		CurrentPlayer: player,
		Snapshot: Snapshot{
			Stores: stores,
			Pits:   [2][NumPits]int{first, second},
		},
	}
}

func TestSetup(t *testing.T) {
	spec := NewSpec()
	state := spec.Setup()

	require.Equal(t, game.First, state.CurrentPlayer, "First player should move first")
	require.False(t, state.Ended, "Fresh game should not be over")
	require.Equal(t, [2]int{0, 0}, state.Snapshot.Stores, "Stores should start empty")
	for _, p := range game.Players {
		require.Equal(t, [NumPits]int{4, 4, 4, 4, 4, 4}, state.Snapshot.Pits[p], "Every pit should hold four stones")
	}
	require.Equal(t, TotalStones, state.Snapshot.Total(), "Board should hold 48 stones")
}

func TestLegalActions(t *testing.T) {
	spec := NewSpec()

	t.Run("listing non-empty pits in ascending order", func(t *testing.T) {
		state := newState(game.Second, [2]int{}, [NumPits]int{1, 1, 1, 1, 1, 1}, [NumPits]int{0, 3, 0, 2, 0, 7})

		got := spec.LegalActions(state)

		require.Equal(t, []Action{Play(1), Play(3), Play(5)}, got, "Only non-empty pits of the current player should be playable")
	})

	t.Run("nothing to play once ended", func(t *testing.T) {
		state := spec.Setup()
		state.Ended = true

		require.Empty(t, spec.LegalActions(state), "Ended state should have no legal actions")
	})
}

func TestReduce(t *testing.T) {
	spec := NewSpec()

	t.Run("sowing into own store grants an extra turn", func(t *testing.T) {
		state := spec.Setup()

		got := spec.Reduce(state, Play(2))

		require.Equal(t, 1, got.Snapshot.Stores[game.First], "Last stone should land in the store")
		require.Equal(t, [NumPits]int{4, 4, 0, 5, 5, 5}, got.Snapshot.Pits[game.First])
		require.Equal(t, [NumPits]int{4, 4, 4, 4, 4, 4}, got.Snapshot.Pits[game.Second], "Opponent row should be untouched")
		require.Equal(t, game.First, got.CurrentPlayer, "Player should keep the turn")
		require.False(t, got.Ended)
	})

	t.Run("passing the turn after an ordinary move", func(t *testing.T) {
		state := spec.Setup()

		got := spec.Reduce(state, Play(0))

		require.Equal(t, [NumPits]int{0, 5, 5, 5, 5, 4}, got.Snapshot.Pits[game.First])
		require.Equal(t, game.Second, got.CurrentPlayer, "Turn should pass to the opponent")
	})

	t.Run("capturing the opposite pit", func(t *testing.T) {
		state := newState(game.First, [2]int{}, [NumPits]int{1, 0, 1, 0, 0, 0}, [NumPits]int{2, 2, 3, 2, 2, 2})

		got := spec.Reduce(state, Play(2))

		require.Equal(t, 4, got.Snapshot.Stores[game.First], "Store should gain the captured stones plus the landing stone")
		require.Equal(t, 0, got.Snapshot.Pits[game.First][3], "Landing pit should be emptied")
		require.Equal(t, 0, got.Snapshot.Pits[game.Second][2], "Opposite pit should be emptied")
		require.Equal(t, game.Second, got.CurrentPlayer)
		require.False(t, got.Ended)
		require.Equal(t, state.Snapshot.Total(), got.Snapshot.Total(), "Capture should conserve stones")
	})

	t.Run("no capture when the opposite pit is empty", func(t *testing.T) {
		state := newState(game.First, [2]int{}, [NumPits]int{1, 0, 1, 0, 0, 0}, [NumPits]int{2, 2, 0, 2, 2, 2})

		got := spec.Reduce(state, Play(2))

		require.Equal(t, 0, got.Snapshot.Stores[game.First], "Store should not change")
		require.Equal(t, 1, got.Snapshot.Pits[game.First][3], "Landing pit should keep its stone")
	})

	t.Run("no capture when the landing pit was occupied", func(t *testing.T) {
		state := newState(game.First, [2]int{}, [NumPits]int{1, 0, 1, 2, 0, 0}, [NumPits]int{2, 2, 3, 2, 2, 2})

		got := spec.Reduce(state, Play(2))

		require.Equal(t, 0, got.Snapshot.Stores[game.First])
		require.Equal(t, 3, got.Snapshot.Pits[game.First][3])
		require.Equal(t, 3, got.Snapshot.Pits[game.Second][2])
	})

	t.Run("no capture on the opponent's row", func(t *testing.T) {
		state := newState(game.First, [2]int{}, [NumPits]int{1, 0, 0, 0, 0, 2}, [NumPits]int{0, 2, 2, 2, 2, 5})

		got := spec.Reduce(state, Play(5))

		require.Equal(t, 1, got.Snapshot.Stores[game.First])
		require.Equal(t, 1, got.Snapshot.Pits[game.Second][0], "Stone should stay in the opponent's pit")
		require.Equal(t, 5, got.Snapshot.Pits[game.Second][5])
		require.Equal(t, game.Second, got.CurrentPlayer)
	})

	t.Run("skipping the opponent's store", func(t *testing.T) {
		state := newState(game.First, [2]int{3, 7}, [NumPits]int{1, 1, 0, 0, 0, 9}, [NumPits]int{1, 1, 1, 1, 1, 1})

		got := spec.Reduce(state, Play(5))

		require.Equal(t, 4, got.Snapshot.Stores[game.First], "Own store should receive one stone")
		require.Equal(t, 7, got.Snapshot.Stores[game.Second], "Opponent store should never receive stones")
		require.Equal(t, [NumPits]int{2, 2, 2, 2, 2, 2}, got.Snapshot.Pits[game.Second])
		require.Equal(t, [NumPits]int{2, 2, 0, 0, 0, 0}, got.Snapshot.Pits[game.First])
		require.Equal(t, state.Snapshot.Total(), got.Snapshot.Total())
	})

	t.Run("lapping the board lands back in the emptied pit and captures", func(t *testing.T) {
		state := newState(game.First, [2]int{}, [NumPits]int{13, 0, 0, 0, 0, 0}, [NumPits]int{1, 1, 1, 1, 1, 1})

		got := spec.Reduce(state, Play(0))

		require.Equal(t, 4, got.Snapshot.Stores[game.First])
		require.Equal(t, [NumPits]int{0, 1, 1, 1, 1, 1}, got.Snapshot.Pits[game.First])
		require.Equal(t, [NumPits]int{2, 2, 2, 2, 2, 0}, got.Snapshot.Pits[game.Second])
		require.Equal(t, state.Snapshot.Total(), got.Snapshot.Total())
	})

	t.Run("sweeping the remaining row when a side runs out", func(t *testing.T) {
		state := newState(game.First, [2]int{20, 22}, [NumPits]int{0, 0, 0, 0, 0, 1}, [NumPits]int{0, 3, 0, 2, 0, 0})

		got := spec.Reduce(state, Play(5))

		require.True(t, got.Ended, "Game should end once a row is empty")
		require.Equal(t, [2]int{21, 27}, got.Snapshot.Stores, "Remaining stones should be swept into their owner's store")
		require.Equal(t, [NumPits]int{}, got.Snapshot.Pits[game.Second])
		require.Equal(t, [NumPits]int{}, got.Snapshot.Pits[game.First])
		require.Equal(t, game.First, got.CurrentPlayer, "Extra turn should still be recorded on the final move")
	})

	t.Run("ending when the opponent's row is emptied by a capture", func(t *testing.T) {
		state := newState(game.Second, [2]int{10, 10}, [NumPits]int{0, 0, 0, 0, 3, 0}, [NumPits]int{1, 0, 0, 0, 0, 4})

		got := spec.Reduce(state, Play(0))

		require.True(t, got.Ended)
		require.Equal(t, [2]int{10, 10 + 3 + 1 + 4}, got.Snapshot.Stores, "Capture then sweep of the mover's own row")
		require.Equal(t, game.First, got.CurrentPlayer)
	})

	t.Run("not mutating the input state", func(t *testing.T) {
		state := spec.Setup()
		before := state

		_ = spec.Reduce(state, Play(0))

		require.Equal(t, before, state, "Reduce should return a new state")
	})
}

func TestReduceNoOps(t *testing.T) {
	spec := NewSpec()
	running := newState(game.First, [2]int{}, [NumPits]int{0, 4, 4, 4, 4, 4}, [NumPits]int{4, 4, 4, 4, 4, 4})
	ended := spec.Setup()
	ended.Ended = true

	cases := []struct {
		name   string
		state  State
		action Action
	}{
		{"ended state", ended, Play(0)},
		{"missing payload", running, Action{Type: PlayAction}},
		{"unknown action type", running, Action{Type: "pass", Payload: &Payload{Pit: 1}}},
		{"negative pit", running, Play(-1)},
		{"pit past the row", running, Play(NumPits)},
		{"empty pit", running, Play(0)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := spec.Reduce(c.state, c.action)
			require.Equal(t, c.state, got, "Illegal action should leave the state unchanged")
		})
	}
}

func TestWinner(t *testing.T) {
	spec := NewSpec()

	t.Run("undecided while running", func(t *testing.T) {
		_, ok := spec.Winner(spec.Setup())
		require.False(t, ok)
	})

	t.Run("higher store wins", func(t *testing.T) {
		state := newState(game.First, [2]int{20, 28}, [NumPits]int{}, [NumPits]int{})
		state.Ended = true

		winner, ok := spec.Winner(state)

		require.True(t, ok)
		require.Equal(t, game.Second, winner)
	})

	t.Run("equal stores draw", func(t *testing.T) {
		state := newState(game.First, [2]int{24, 24}, [NumPits]int{}, [NumPits]int{})
		state.Ended = true

		_, ok := spec.Winner(state)

		require.False(t, ok, "Equal stores should be a draw")
	})
}

func TestEvaluate(t *testing.T) {
	spec := NewSpec()

	t.Run("symmetric opening", func(t *testing.T) {
		state := spec.Setup()
		require.Equal(t, 24.0, spec.Evaluate(state, game.First))
		require.Equal(t, 24.0, spec.Evaluate(state, game.Second))
	})

	t.Run("store lead dominates", func(t *testing.T) {
		state := newState(game.First, [2]int{10, 7}, [NumPits]int{1, 2, 0, 0, 0, 0}, [NumPits]int{5, 5, 5, 5, 5, 3})

		require.Equal(t, float64(3*StoreWeight+3), spec.Evaluate(state, game.First))
		require.Equal(t, float64(-3*StoreWeight+28), spec.Evaluate(state, game.Second))
	})
}

// Random playouts check the invariants that must hold for every reachable state.
func TestRandomPlayoutInvariants(t *testing.T) {
	spec := NewSpec()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		state := spec.Setup()
		for turns := 0; !state.Ended; turns++ {
			require.Less(t, turns, 1000, "Game should terminate")

			actions := spec.LegalActions(state)
			require.NotEmpty(t, actions, "Running game should always offer a move")
			for _, action := range actions {
				pit, ok := action.Pit()
				require.True(t, ok)
				require.Positive(t, state.Snapshot.Pits[state.CurrentPlayer][pit], "Legal action should name a non-empty pit")
				require.NotEqual(t, state, spec.Reduce(state, action), "Legal action should change the state")
			}

			state = spec.Reduce(state, actions[r.Intn(len(actions))])
			require.Equal(t, TotalStones, state.Snapshot.Total(), "Stones should be conserved")
		}

		require.True(t, state.Snapshot.RowEmpty(game.First), "Ended game should have both rows swept")
		require.True(t, state.Snapshot.RowEmpty(game.Second), "Ended game should have both rows swept")
		require.Empty(t, spec.LegalActions(state))
		winner, ok := spec.Winner(state)
		if state.Snapshot.Stores[game.First] == state.Snapshot.Stores[game.Second] {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.Greater(t, state.Snapshot.Stores[winner], state.Snapshot.Stores[winner.Other()])
		}
	}
}

func TestStateJSON(t *testing.T) {
	spec := NewSpec()
	state := spec.Reduce(spec.Reduce(spec.Setup(), Play(2)), Play(5))

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, state, decoded, "JSON should round-trip every snapshot field")
}
