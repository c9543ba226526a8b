package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client submits prompts to the remote design agent. One Submit call issues
// exactly one outbound request; retries and timeouts are left to the injected
// http.Client.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

type submitRequest struct {
	Prompt  string `json:"prompt"`
	AgentID string `json:"agent_id"`
}

// Submit sends promptText to the agent identified by agentID and decodes the
// loosely-typed result payload. Transport errors and non-2xx statuses are
// returned as errors; a decoded payload with Success=false is not an error at
// this level.
func (c *Client) Submit(ctx context.Context, promptText string, agentID string) (*Result, error) {
	body, err := json.Marshal(submitRequest{Prompt: promptText, AgentID: agentID})
	if err != nil {
		return nil, errors.Wrap(err, "marshal agent request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build agent request")
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("endpoint", c.endpoint).Str("agent_id", agentID).Msg("submitting prompt to agent")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "agent request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(b)).Msg("agent returned non-success status")
		return nil, errors.Errorf("agent returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode agent response")
	}
	return &result, nil
}
