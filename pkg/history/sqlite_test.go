package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordAndCount(t *testing.T) {
	h, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	ctx := context.Background()
	h.Record(ctx, Generation{
		AgentID:  "agent-1",
		Prompt:   "a poster",
		Outcome:  OutcomeSuccess,
		ImageURL: "http://x/img.png",
		Duration: 1500 * time.Millisecond,
	})
	h.Record(ctx, Generation{
		AgentID: "agent-1",
		Prompt:  "another poster",
		Outcome: OutcomeTransport,
		Err:     "connection refused",
	})

	n, err := h.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestNilHistoryIsNoop(t *testing.T) {
	var h *SQLiteHistory
	h.Record(context.Background(), Generation{Prompt: "ignored"})
	n, err := h.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.NoError(t, h.Close())
}
