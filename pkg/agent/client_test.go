package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_SubmitSendsOneRequest(t *testing.T) {
	var calls atomic.Int64
	var gotPrompt, gotAgentID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		var body submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body.Prompt
		gotAgentID = body.AgentID
		_, _ = w.Write([]byte(`{"success": true, "response": {"result": {"raw_text": "ok"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	result, err := c.Submit(context.Background(), "a coffee poster", "agent-1")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, int64(1), calls.Load())
	require.Equal(t, "a coffee poster", gotPrompt)
	require.Equal(t, "agent-1", gotAgentID)
}

func TestClient_SubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Submit(context.Background(), "prompt", "agent-1")
	require.Error(t, err)
}

func TestClient_SubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Submit(context.Background(), "prompt", "agent-1")
	require.Error(t, err)
}
