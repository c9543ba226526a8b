package history

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Outcome labels for a recorded generation.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeTransport = "transport_error"
)

// Generation is one prompt/response cycle as recorded for debugging.
type Generation struct {
	AgentID     string
	Prompt      string
	Outcome     string
	ImageURL    string
	Explanation string
	Err         string
	Duration    time.Duration
}

// SQLiteHistory is an optional audit log of generations. A nil receiver is
// valid and records nothing, so callers never branch on whether history is
// configured.
type SQLiteHistory struct {
	db *sql.DB
}

func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	return &SQLiteHistory{db: db}, nil
}

// Record persists one generation. Failures are logged, never propagated; the
// history is a debugging aid, not part of the state model.
func (h *SQLiteHistory) Record(ctx context.Context, g Generation) {
	if h == nil {
		return
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO generations(id, created_at, agent_id, prompt, outcome, image_url, explanation, error, duration_ms)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(),
		time.Now().Format(time.RFC3339Nano),
		g.AgentID,
		g.Prompt,
		g.Outcome,
		g.ImageURL,
		g.Explanation,
		g.Err,
		g.Duration.Milliseconds(),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record generation history")
	}
}

// Count returns the number of recorded generations.
func (h *SQLiteHistory) Count(ctx context.Context) (int, error) {
	if h == nil {
		return 0, nil
	}
	var n int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&n)
	return n, errors.Wrap(err, "count generations")
}

func (h *SQLiteHistory) Close() error {
	if h == nil {
		return nil
	}
	return h.db.Close()
}
