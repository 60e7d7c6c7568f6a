package communication

import (
	"errors"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/gamemaster"
)

const (
	FindMovePath = "/findmove"
	HealthPath   = "/health"
	StatePath    = "/state"
	PlayPath     = "/play"
	ResetPath    = "/reset"
)

type FindMoveRequest[S any] struct {
	State game.State[S] `json:"state"`
}

type FindMoveResponse[A any] struct {
	Action A                    `json:"action"`
	Metric metrics.SearchMetric `json:"metric"`
}

type PlayRequest[A any] struct {
	Player game.PlayerID `json:"player"`
	Action A             `json:"action"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Error codes carried by ErrorResponse
const (
	CodeBadRequest   = "bad_request"
	CodeNoLegalMoves = "no_legal_moves"
	CodeIllegal      = "illegal_action"
	CodeNotYourTurn  = "not_your_turn"
	CodeGameOver     = "game_over"
	CodeInternal     = "internal"
)

var codes = map[string]error{
	CodeNoLegalMoves: game.ErrNoLegalMoves,
	CodeIllegal:      game.ErrIllegalAction,
	CodeNotYourTurn:  gamemaster.ErrNotYourTurn,
	CodeGameOver:     game.ErrGameOver,
}

// Code returns the wire code for err.
func Code(err error) string {
	for code, target := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return CodeInternal
}

// Sentinel returns the error a wire code stands for, or nil if it has none.
func Sentinel(code string) error {
	return codes[code]
}
