package kalah

import (
	"fmt"
	"strings"

	"kalah/game"
)

// Display renders the board as text. The second player's row runs right to
// left along the top with their store on the left; the first player's row
// runs left to right along the bottom with their store on the right.
func Display(state State) string {
	var b strings.Builder
	snapshot := state.Snapshot

	top := snapshot.Pits[game.Second]
	bottom := snapshot.Pits[game.First]

	b.WriteString("      ")
	for i := NumPits - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  %d  ", i)
	}
	fmt.Fprintf(&b, "   %s\n", game.Second)

	b.WriteString("      ")
	for i := NumPits - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "[%3d]", top[i])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "[%3d]%s[%3d]\n", snapshot.Stores[game.Second], strings.Repeat(" ", 5*NumPits+2), snapshot.Stores[game.First])

	b.WriteString("      ")
	for i := 0; i < NumPits; i++ {
		fmt.Fprintf(&b, "[%3d]", bottom[i])
	}
	b.WriteString("\n")

	b.WriteString("      ")
	for i := 0; i < NumPits; i++ {
		fmt.Fprintf(&b, "  %d  ", i)
	}
	fmt.Fprintf(&b, "   %s\n", game.First)

	b.WriteString(statusLine(state))
	return b.String()
}

func statusLine(state State) string {
	if !state.Ended {
		return fmt.Sprintf("%s to move\n", state.CurrentPlayer)
	}
	if winner, ok := (Spec{}).Winner(state); ok {
		return fmt.Sprintf("Game over! Winner: %s\n", winner)
	}
	return "Game over! Draw\n"
}
