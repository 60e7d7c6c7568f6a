package server

import (
	"context"
	"encoding/json"
	"errors"
	"kalah/agent"
	"kalah/communication"
	"kalah/game"
	"kalah/gamemaster"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Server[S any, A any] struct {
	game    game.Game[S, A]
	bot     agent.Agent[S, A]
	session *gamemaster.Session[S, A]
	mux     *http.ServeMux
}

// New returns a handler that lets remote engines ask bot for moves. A non-nil
// session is also exposed so remote players can follow and play it.
func New[S any, A any](g game.Game[S, A], bot agent.Agent[S, A], session *gamemaster.Session[S, A]) *Server[S, A] {
	s := &Server[S, A]{
		game:    g,
		bot:     bot,
		session: session,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET "+communication.HealthPath, s.handleHealth)
	s.mux.HandleFunc("POST "+communication.FindMovePath, s.handleFindMove)
	if session != nil {
		s.mux.HandleFunc("GET "+communication.StatePath, s.handleState)
		s.mux.HandleFunc("POST "+communication.PlayPath, s.handlePlay)
		s.mux.HandleFunc("POST "+communication.ResetPath, s.handleReset)
	}
	return s
}

func (s *Server[S, A]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server[S, A]) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("serving on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server[S, A]) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server[S, A]) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload communication.FindMoveRequest[S]
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, "bad request: "+err.Error())
		return
	}
	if len(s.game.LegalActions(payload.State)) == 0 {
		writeError(w, http.StatusBadRequest, communication.CodeNoLegalMoves, game.ErrNoLegalMoves.Error())
		return
	}

	action, metric, err := s.bot.FindMove(r.Context(), payload.State)
	if err != nil {
		log.Error().Err(err).Msg("failed to find move")
		writeError(w, http.StatusInternalServerError, communication.Code(err), err.Error())
		return
	}
	log.Debug().Int("nodes", metric.Nodes).Msgf("found move %v", action)

	writeJSON(w, http.StatusOK, communication.FindMoveResponse[A]{Action: action, Metric: metric})
}

func (s *Server[S, A]) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server[S, A]) handlePlay(w http.ResponseWriter, r *http.Request) {
	var payload communication.PlayRequest[A]
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, "bad request: "+err.Error())
		return
	}

	if err := s.session.Play(payload.Player, payload.Action); err != nil {
		status := http.StatusConflict
		if errors.Is(err, game.ErrIllegalAction) {
			status = http.StatusBadRequest
		}
		writeError(w, status, communication.Code(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server[S, A]) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, s.session.State())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, communication.ErrorResponse{Code: code, Error: message})
}
