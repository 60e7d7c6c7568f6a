package searcher

import "kalah/game"

// treeGame is a game over an explicit tree. Snapshots are node names and
// actions are the names of child nodes.
type treeGame struct {
	children map[string][]string
	values   map[string]float64       // Static value of a node for game.First
	movers   map[string]game.PlayerID // Player to move at a node, game.First if absent
	winners  map[string]game.PlayerID
	ended    map[string]bool // Ended without a winner
}

func (t treeGame) Setup() game.State[string] {
	return t.state("root")
}

func (t treeGame) state(node string) game.State[string] {
	return game.State[string]{
		CurrentPlayer: t.movers[node],
		Ended:         t.ended[node] || t.hasWinner(node),
		Snapshot:      node,
	}
}

func (t treeGame) hasWinner(node string) bool {
	_, ok := t.winners[node]
	return ok
}

func (t treeGame) LegalActions(state game.State[string]) []string {
	if state.Ended {
		return nil
	}
	return t.children[state.Snapshot]
}

func (t treeGame) Reduce(state game.State[string], action string) game.State[string] {
	return t.state(action)
}

func (t treeGame) Winner(state game.State[string]) (game.PlayerID, bool) {
	winner, ok := t.winners[state.Snapshot]
	return winner, ok && state.Ended
}

func (t treeGame) Evaluate(state game.State[string], me game.PlayerID) float64 {
	if me == game.First {
		return t.values[state.Snapshot]
	}
	return -t.values[state.Snapshot]
}

// Two-ply tree where the first player moves at the root and the second player
// replies.
func classicTree() treeGame {
	second := game.Second
	return treeGame{
		children: map[string][]string{
			"root": {"a", "b", "c"},
			"a":    {"a1", "a2", "a3"},
			"b":    {"b1", "b2", "b3"},
			"c":    {"c1", "c2", "c3"},
		},
		values: map[string]float64{
			"a1": 3, "a2": 12, "a3": 8,
			"b1": 2, "b2": 4, "b3": 6,
			"c1": 14, "c2": 5, "c3": 2,
		},
		movers: map[string]game.PlayerID{"a": second, "b": second, "c": second},
	}
}
