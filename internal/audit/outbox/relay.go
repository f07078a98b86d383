// Package outbox publishes committed audit events to Kafka. The relay polls
// the audit_outbox table for unpublished rows, produces them, and marks them
// published. At-least-once delivery: a crash between produce and mark causes
// a redelivery, never a loss.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultBatchSize    = 100
	defaultPollInterval = 2 * time.Second
)

// Relay moves audit events from the outbox table to Kafka.
type Relay struct {
	db           *sql.DB
	client       *kgo.Client
	logger       *slog.Logger
	topicPrefix  string
	batchSize    int
	pollInterval time.Duration
}

// Option configures the Relay.
type Option func(*Relay)

// WithBatchSize overrides how many rows one poll claims.
func WithBatchSize(n int) Option {
	return func(r *Relay) {
		r.batchSize = n
	}
}

// WithPollInterval overrides the idle wait between polls.
func WithPollInterval(d time.Duration) Option {
	return func(r *Relay) {
		r.pollInterval = d
	}
}

// NewClient builds a franz-go producer for the given brokers.
func NewClient(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// New creates a relay. Events land on topics named <prefix>.<category>, e.g.
// audit.compliance, audit.security, audit.operations.
func New(db *sql.DB, client *kgo.Client, topicPrefix string, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		db:           db,
		client:       client,
		logger:       logger,
		topicPrefix:  topicPrefix,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

type outboxRow struct {
	id       string
	category string
	payload  []byte
}

func (r *Relay) drainOnce(ctx context.Context) error {
	for {
		n, err := r.relayBatch(ctx)
		if err != nil {
			return err
		}
		if n < r.batchSize {
			return nil
		}
	}
}

// relayBatch claims one batch of unpublished rows, produces them, and marks
// them published, all inside one transaction. FOR UPDATE SKIP LOCKED lets
// multiple relay instances run without stepping on each other.
func (r *Relay) relayBatch(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, `
		SELECT id, category, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("query outbox: %w", err)
	}

	var batch []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.category, &row.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()

	if len(batch) == 0 {
		return 0, nil
	}

	records := make([]*kgo.Record, 0, len(batch))
	ids := make([]string, 0, len(batch))
	for _, row := range batch {
		records = append(records, &kgo.Record{
			Topic: r.topicPrefix + "." + row.category,
			Key:   []byte(row.id),
			Value: row.payload,
		})
		ids = append(ids, row.id)
	}

	results := r.client.ProduceSync(ctx, records...)
	if err := results.FirstErr(); err != nil {
		return 0, fmt.Errorf("produce audit batch: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE audit_outbox SET published_at = now()
		WHERE id = ANY($1::uuid[])`, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}

	r.logger.Debug("relayed audit batch", "count", len(batch))
	return len(batch), nil
}
