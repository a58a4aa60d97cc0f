package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/postgres"
)

// Sink delivers search events to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, event SearchEvent) error
}

// Publisher is the subset of *kafka.Producer used by KafkaSink.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, value any) error
}

// KafkaSink publishes events keyed by session so a session's events stay
// ordered within one partition.
type KafkaSink struct {
	producer Publisher
}

func NewKafkaSink(producer Publisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, event SearchEvent) error {
	return s.producer.PublishJSON(ctx, event.SessionID, event)
}

// Execer is the subset of *sql.DB used by PostgresSink.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresSink appends events to the search_events table created by
// EnsureSchema.
type PostgresSink struct {
	db Execer
}

func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

const insertEventSQL = `INSERT INTO search_events
	(session_id, event_type, strategy, matches, data, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

func (s *PostgresSink) Send(ctx context.Context, event SearchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling search event: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertEventSQL,
		event.SessionID,
		string(event.Type),
		event.Strategy,
		event.Matches,
		data,
		event.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting search event: %w", err)
	}
	return nil
}

// EnsureSchema creates the search_events table if it does not exist.
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	return client.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS search_events (
			id          BIGSERIAL PRIMARY KEY,
			session_id  TEXT NOT NULL,
			event_type  TEXT NOT NULL,
			strategy    TEXT NOT NULL,
			matches     INTEGER NOT NULL,
			data        JSONB NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)`); err != nil {
			return fmt.Errorf("creating search_events table: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`CREATE INDEX IF NOT EXISTS search_events_session_idx ON search_events (session_id, occurred_at)`,
		); err != nil {
			return fmt.Errorf("creating search_events index: %w", err)
		}
		return nil
	})
}
