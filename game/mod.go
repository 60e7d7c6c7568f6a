package game

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/samber/lo"
)

// PlayerID identifies one of the two seats at the board.
type PlayerID int

const (
	First  PlayerID = 0
	Second PlayerID = 1
)

// Players lists both seats in turn order.
var Players = [2]PlayerID{First, Second}

// Other returns the opponent of p.
func (p PlayerID) Other() PlayerID {
	return 1 - p
}

func (p PlayerID) Valid() bool {
	return p == First || p == Second
}

func (p PlayerID) String() string {
	return fmt.Sprintf("Player%d", int(p)+1)
}

// ErrNoLegalMoves is raised when a search is asked to pick a move from a
// position that has none.
var ErrNoLegalMoves = errors.New("no legal moves")

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrGameOver      = errors.New("game is over")
)

// State is the envelope shared by every game. It is a plain value: operations
// on a State always return a new copy and never mutate their input.
type State[S any] struct {
	CurrentPlayer PlayerID `json:"currentPlayer"`
	Ended         bool     `json:"ended"`
	Snapshot      S        `json:"snapshot"`
}

// Game is the contract any two-player, zero-sum, perfect-information game must
// satisfy to be searchable. All methods are pure.
type Game[S any, A any] interface {
	// Setup returns the initial state of a fresh game.
	Setup() State[S]
	// LegalActions lists every action the current player may take. It is empty
	// once the state has ended.
	LegalActions(state State[S]) []A
	// Reduce applies an action. An ended state or an illegal action returns the
	// state unchanged.
	Reduce(state State[S], action A) State[S]
	// Winner reports the winner of an ended state. ok is false while the game
	// is running or when it ended in a draw.
	Winner(state State[S]) (winner PlayerID, ok bool)
	// Evaluate scores a state from the perspective of player me; higher is better.
	Evaluate(state State[S], me PlayerID) float64
}

// Evaluate is a static scoring function over a game's states.
type Evaluate[S any] func(state State[S], me PlayerID) float64

// Hasher is implemented by games that can fingerprint their states.
type Hasher[S any] interface {
	Hash(state State[S]) uint64
}

// Update records one applied action and the state it produced.
type Update[S any, A any] struct {
	Player PlayerID `json:"player"`
	Action A        `json:"action"`
	State  State[S] `json:"state"`
	Hash   uint64   `json:"hash"`
	Reset  bool     `json:"reset,omitempty"` // A new game replaced the old one
}

// IsLegal reports whether action is among the legal actions of state. Actions
// with an Equal(A) bool method are compared with it.
func IsLegal[S any, A any](g Game[S, A], state State[S], action A) bool {
	return lo.ContainsBy(g.LegalActions(state), func(legal A) bool {
		return equal(legal, action)
	})
}

func equal[A any](x, y A) bool {
	if e, ok := any(x).(interface{ Equal(A) bool }); ok {
		return e.Equal(y)
	}
	return reflect.DeepEqual(x, y)
}

// Hash fingerprints state if g supports it, and returns 0 otherwise.
func Hash[S any, A any](g Game[S, A], state State[S]) uint64 {
	if h, ok := g.(Hasher[S]); ok {
		return h.Hash(state)
	}
	return 0
}

type evaluated[S any, A any] struct {
	Game[S, A]
	evaluate Evaluate[S]
}

func (e evaluated[S, A]) Evaluate(state State[S], me PlayerID) float64 {
	return e.evaluate(state, me)
}

func (e evaluated[S, A]) Hash(state State[S]) uint64 {
	return Hash(e.Game, state)
}

// WithEvaluation returns g with its static evaluation replaced by fn.
func WithEvaluation[S any, A any](g Game[S, A], fn Evaluate[S]) Game[S, A] {
	return evaluated[S, A]{Game: g, evaluate: fn}
}
