// Package runner drives a running Word Battle API over HTTP.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/internal/arena"
	"github.com/jwebster45206/word-battle/internal/handlers"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/question"
)

const (
	// PollInterval is how often to check a match for a phase change
	PollInterval = 50 * time.Millisecond
	// PhaseTimeout is max time to wait for a scheduled transition
	PhaseTimeout = 10 * time.Second
)

// Client is a thin API client used by the integration suite.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthy reports whether /health answered 200.
func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Categories returns the answer for every word in the server's bank.
func (c *Client) Categories(ctx context.Context) (map[string]question.Category, error) {
	var qs handlers.QuestionsResponse
	if err := c.call(ctx, http.MethodGet, "/v1/questions", nil, http.StatusOK, &qs); err != nil {
		return nil, err
	}
	out := make(map[string]question.Category, len(qs.Questions))
	for _, q := range qs.Questions {
		out[q.Word] = q.Category
	}
	return out, nil
}

func (c *Client) CreateMatch(ctx context.Context) (arena.Turn, error) {
	var turn arena.Turn
	err := c.call(ctx, http.MethodPost, "/v1/matches", nil, http.StatusCreated, &turn)
	return turn, err
}

func (c *Client) GetMatch(ctx context.Context, id uuid.UUID) (battle.Match, error) {
	var m battle.Match
	err := c.call(ctx, http.MethodGet, "/v1/matches/"+id.String(), nil, http.StatusOK, &m)
	return m, err
}

func (c *Client) Start(ctx context.Context, id uuid.UUID) (arena.Turn, error) {
	var turn arena.Turn
	err := c.call(ctx, http.MethodPost, "/v1/matches/"+id.String()+"/start", nil, http.StatusOK, &turn)
	return turn, err
}

func (c *Client) Answer(ctx context.Context, id uuid.UUID, choice question.Category) (arena.Turn, error) {
	var turn arena.Turn
	body := handlers.AnswerRequest{Choice: choice.String()}
	err := c.call(ctx, http.MethodPost, "/v1/matches/"+id.String()+"/answer", body, http.StatusOK, &turn)
	return turn, err
}

func (c *Client) Hint(ctx context.Context, id uuid.UUID) (string, error) {
	var resp handlers.HintResponse
	err := c.call(ctx, http.MethodGet, "/v1/matches/"+id.String()+"/hint", nil, http.StatusOK, &resp)
	return resp.Hint, err
}

// WaitForPhase polls the match until it reaches phase or PhaseTimeout passes.
func (c *Client) WaitForPhase(ctx context.Context, id uuid.UUID, phase battle.Phase) (battle.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, PhaseTimeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		m, err := c.GetMatch(ctx, id)
		if err != nil {
			return battle.Match{}, err
		}
		if m.Phase == phase {
			return m, nil
		}

		select {
		case <-ctx.Done():
			return m, fmt.Errorf("timeout waiting for phase %s (last %s)", phase, m.Phase)
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.HTTP.Do(req)
}

func (c *Client) call(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
