package kalah

import "kalah/game"

// StoreWeight scales the store lead so that it dominates the material term.
const StoreWeight = 20

// EvaluateStoreLead weighs the store difference heavily and nudges towards
// positions that keep more stones on me's side of the board.
func EvaluateStoreLead(state State, me game.PlayerID) float64 {
	if !me.Valid() {
		panic("unexpected player id")
	}
	snapshot := state.Snapshot
	lead := snapshot.Stores[me] - snapshot.Stores[me.Other()]
	return float64(lead*StoreWeight + snapshot.RowSum(me))
}

// EvaluateStores only looks at the store difference.
func EvaluateStores(state State, me game.PlayerID) float64 {
	if !me.Valid() {
		panic("unexpected player id")
	}
	return float64(state.Snapshot.Stores[me] - state.Snapshot.Stores[me.Other()])
}
