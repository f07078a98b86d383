// Package postgres implements the audit store using the transactional outbox
// pattern. Events are written to the outbox table inside the caller's
// transaction and published to Kafka by the outbox relay; Kafka is the
// source of truth for audit events.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"canvass/internal/audit"
	txcontext "canvass/pkg/platform/tx"
)

// Store writes audit events to the outbox.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the outbox table.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_outbox (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS audit_outbox_unpublished
	ON audit_outbox (created_at) WHERE published_at IS NULL;
`

// EnsureSchema applies the outbox schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// payload is the JSON structure published to Kafka.
type payload struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Timestamp  string            `json:"timestamp"`
	Action     string            `json:"action"`
	TargetKind string            `json:"target_kind,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	FieldDiffs []audit.FieldDiff `json:"field_diffs,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// Append writes an audit event to the outbox table. When the context carries
// a transaction the write joins it, so the event commits with the mutation.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	// Category derives from the action; the eventCategories map is the
	// source of truth.
	category := audit.AuditEvent(event.Action).Category()

	body, err := json.Marshal(payload{
		ID:         eventID.String(),
		Category:   string(category),
		Timestamp:  event.Timestamp.Format(time.RFC3339Nano),
		Action:     event.Action,
		TargetKind: event.TargetKind,
		TargetName: event.TargetName,
		FieldDiffs: event.FieldDiffs,
		ActorID:    event.ActorID,
		RequestID:  event.RequestID,
		Meta:       event.Meta,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	q := txcontext.QuerierFrom(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO audit_outbox (id, category, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventID.String(), string(category), event.Action, body, event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit outbox: %w", err)
	}
	return nil
}
