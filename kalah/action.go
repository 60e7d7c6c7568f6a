package kalah

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionType discriminates the kinds of action. Kalah only has one.
type ActionType string

const PlayAction ActionType = "play"

type Payload struct {
	Pit int `json:"pit"`
}

// Action represents a move taken by the current player.
type Action struct {
	Type    ActionType `json:"type"`
	Payload *Payload   `json:"payload,omitempty"`
}

// Play returns the action sowing the given pit of the current player's row.
func Play(pit int) Action {
	return Action{Type: PlayAction, Payload: &Payload{Pit: pit}}
}

// Pit returns the pit named by a well-formed play action.
func (a Action) Pit() (int, bool) {
	if a.Type != PlayAction || a.Payload == nil {
		return 0, false
	}
	if a.Payload.Pit < 0 || a.Payload.Pit >= NumPits {
		return 0, false
	}
	return a.Payload.Pit, true
}

// Equal compares actions by value rather than by payload pointer.
func (a Action) Equal(b Action) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Payload == nil || b.Payload == nil {
		return a.Payload == b.Payload
	}
	return *a.Payload == *b.Payload
}

func (a Action) String() string {
	if a.Payload == nil {
		return string(a.Type)
	}
	return fmt.Sprintf("%s %d", a.Type, a.Payload.Pit)
}

// ParseAction reads "3" or "play 3" into a play action.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 2 && ActionType(fields[0]) == PlayAction {
		fields = fields[1:]
	}
	if len(fields) != 1 {
		return Action{}, fmt.Errorf("cannot parse action %q", s)
	}
	pit, err := strconv.Atoi(fields[0])
	if err != nil {
		return Action{}, fmt.Errorf("cannot parse pit %q: %w", fields[0], err)
	}
	if pit < 0 || pit >= NumPits {
		return Action{}, fmt.Errorf("pit %d out of range 0..%d", pit, NumPits-1)
	}
	return Play(pit), nil
}
