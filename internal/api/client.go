// Package api is the HTTP client for the WorldShell game server. All
// game rules live server-side; this package only moves requests and
// snapshots across the wire and turns server-reported failures into
// ordinary errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	gameID  string
	http    *http.Client
}

// NewClient builds a client for the server at baseURL. The server
// tracks the joined role in a session cookie, so the client carries a
// cookie jar for its lifetime.
func NewClient(baseURL, gameID string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		gameID:  gameID,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
	}, nil
}

// GameID returns the session id this client joins and restarts.
func (c *Client) GameID() string {
	return c.gameID
}

type joinRequest struct {
	Role   string `json:"role"`
	GameID string `json:"game_id"`
	UseAI  bool   `json:"use_ai"`
}

type joinResponse struct {
	Success    bool   `json:"success"`
	Role       string `json:"role"`
	AIOpponent bool   `json:"ai_opponent"`
	Error      string `json:"error"`
}

// Join requests the given role in the session. useAI asks the server
// to control the opposing role.
func (c *Client) Join(ctx context.Context, role string, useAI bool) (JoinResult, error) {
	var resp joinResponse
	err := c.post(ctx, "/api/join", joinRequest{Role: role, GameID: c.gameID, UseAI: useAI}, &resp)
	if err != nil {
		return JoinResult{}, err
	}
	if !resp.Success {
		return JoinResult{}, serverError(resp.Error, "join rejected")
	}
	return JoinResult{Role: resp.Role, AIOpponent: resp.AIOpponent}, nil
}

type stateResponse struct {
	Snapshot
	Error string `json:"error"`
}

// State fetches a full snapshot of the current game.
func (c *Client) State(ctx context.Context) (*Snapshot, error) {
	var resp stateResponse
	if err := c.get(ctx, "/api/state", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, serverError(resp.Error, "state fetch failed")
	}
	snap := resp.Snapshot
	return &snap, nil
}

type catalogResponse struct {
	Catalog
	Error string `json:"error"`
}

// Actions fetches the catalog of actions currently legal for the
// local player. Only meaningful during the local player's turn.
func (c *Client) Actions(ctx context.Context) (*Catalog, error) {
	var resp catalogResponse
	if err := c.get(ctx, "/api/actions", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, serverError(resp.Error, "actions fetch failed")
	}
	cat := resp.Catalog
	return &cat, nil
}

type actionRequest struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Extra   string `json:"extra"`
	EndTurn bool   `json:"end_turn"`
}

type okResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Execute submits one action. The turn is never ended implicitly;
// ending it is EndTurn's job.
func (c *Client) Execute(ctx context.Context, name, target, extra string) error {
	var resp okResponse
	err := c.post(ctx, "/api/action", actionRequest{Action: name, Target: target, Extra: extra, EndTurn: false}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return serverError(resp.Error, "action failed")
	}
	return nil
}

// EndTurn hands the turn to the opponent.
func (c *Client) EndTurn(ctx context.Context) error {
	var resp okResponse
	if err := c.post(ctx, "/api/end_turn", struct{}{}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return serverError(resp.Error, "end turn failed")
	}
	return nil
}

type restartRequest struct {
	GameID string `json:"game_id"`
}

// Restart asks the server to discard the session and start over.
func (c *Client) Restart(ctx context.Context) error {
	var resp okResponse
	if err := c.post(ctx, "/api/restart", restartRequest{GameID: c.gameID}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return serverError(resp.Error, "restart failed")
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do runs the request and decodes the JSON body into out. The server
// reports business failures as a JSON body with an "error" field and a
// non-2xx status; those decode into out like any other response so the
// caller sees the server's own message.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s %s: server returned %s", req.Method, req.URL.Path, resp.Status)
		}
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// serverError prefers the server's own message, falling back to a
// generic one when the server sent none.
func serverError(msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return errors.New(msg)
}
