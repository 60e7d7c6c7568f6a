package kalah

import (
	"encoding/binary"
	"kalah/game"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"
)

const (
	NumPits     = 6
	SeedsPerPit = 4
	TotalStones = 2 * NumPits * SeedsPerPit
)

// Snapshot is the Kalah board. Arrays are indexed by game.PlayerID, so copying
// a Snapshot copies the whole board.
type Snapshot struct {
	Stores [2]int          `json:"stores"`
	Pits   [2][NumPits]int `json:"pits"`
}

// State is the Kalah instantiation of the generic game state.
type State = game.State[Snapshot]

// RowSum counts the stones left in a player's pits.
func (s Snapshot) RowSum(p game.PlayerID) int {
	return lo.Sum(s.Pits[p][:])
}

// RowEmpty reports whether all of a player's pits are empty.
func (s Snapshot) RowEmpty(p game.PlayerID) bool {
	return lo.EveryBy(s.Pits[p][:], func(n int) bool { return n == 0 })
}

// Total counts every stone on the board, stores included.
func (s Snapshot) Total() int {
	return s.Stores[game.First] + s.Stores[game.Second] + s.RowSum(game.First) + s.RowSum(game.Second)
}

// sweep ends the game once either row is empty, banking whatever is left on
// the other row into its owner's store.
func (s *Snapshot) sweep() bool {
	if !s.RowEmpty(game.First) && !s.RowEmpty(game.Second) {
		return false
	}
	for _, p := range game.Players {
		if !s.RowEmpty(p) {
			s.Stores[p] += s.RowSum(p)
			s.Pits[p] = [NumPits]int{}
		}
	}
	return true
}

// Hash fingerprints a state.
func Hash(state State) uint64 {
	ended := uint64(0)
	if state.Ended {
		ended = 1
	}
	buf := make([]byte, 0, 8*(2+len(game.Players)*(NumPits+1)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(state.CurrentPlayer))
	buf = binary.LittleEndian.AppendUint64(buf, ended)
	for _, p := range game.Players {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(state.Snapshot.Stores[p]))
		for _, n := range state.Snapshot.Pits[p] {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(n))
		}
	}
	return xxhash.Sum64(buf)
}

func (Spec) Hash(state State) uint64 {
	return Hash(state)
}
