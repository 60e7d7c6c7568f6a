package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"kalah/communication"
	"kalah/experiments/metrics"
	"kalah/game"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 30 * time.Second

type httpClient struct {
	serverURL string
	client    *http.Client
}

func newHTTPClient(serverURL string) httpClient {
	return httpClient{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: DefaultTimeout},
	}
}

func (c httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		if sentinel := communication.Sentinel(e.Code); sentinel != nil {
			return fmt.Errorf("server returned status %d: %s: %w", resp.StatusCode, e.Error, sentinel)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RemoteAgent is an agent whose moves are found by a remote server.
type RemoteAgent[S any, A any] struct {
	httpClient
}

func NewRemoteAgent[S any, A any](serverURL string) *RemoteAgent[S, A] {
	return &RemoteAgent[S, A]{httpClient: newHTTPClient(serverURL)}
}

func (a *RemoteAgent[S, A]) FindMove(ctx context.Context, state game.State[S]) (A, metrics.SearchMetric, error) {
	var resp communication.FindMoveResponse[A]
	err := a.do(ctx, http.MethodPost, communication.FindMovePath, communication.FindMoveRequest[S]{State: state}, &resp)
	if err != nil {
		var zero A
		return zero, metrics.SearchMetric{}, err
	}
	return resp.Action, resp.Metric, nil
}

// SessionClient plays a session hosted by a remote server.
type SessionClient[S any, A any] struct {
	httpClient
}

func NewSessionClient[S any, A any](serverURL string) *SessionClient[S, A] {
	return &SessionClient[S, A]{httpClient: newHTTPClient(serverURL)}
}

func (c *SessionClient[S, A]) State(ctx context.Context) (game.State[S], error) {
	var state game.State[S]
	err := c.do(ctx, http.MethodGet, communication.StatePath, nil, &state)
	return state, err
}

func (c *SessionClient[S, A]) Play(ctx context.Context, player game.PlayerID, action A) (game.State[S], error) {
	var state game.State[S]
	err := c.do(ctx, http.MethodPost, communication.PlayPath, communication.PlayRequest[A]{Player: player, Action: action}, &state)
	return state, err
}

func (c *SessionClient[S, A]) Reset(ctx context.Context) (game.State[S], error) {
	var state game.State[S]
	err := c.do(ctx, http.MethodPost, communication.ResetPath, nil, &state)
	return state, err
}
