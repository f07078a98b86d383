package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"canvass/internal/campaign/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
	txcontext "canvass/pkg/platform/tx"
)

// Schema creates the campaigns table.
const Schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	region TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	starts_at TIMESTAMPTZ NOT NULL,
	ends_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS campaigns_name_unique ON campaigns (lower(name));
`

// Postgres is the production campaign store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema applies the campaign schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply campaign schema: %w", err)
	}
	return nil
}

func (p *Postgres) Insert(ctx context.Context, c *models.Campaign) error {
	q := txcontext.QuerierFrom(ctx, p.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO campaigns (id, name, region, status, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID.String(), c.Name, c.Region, string(c.Status),
		c.StartsAt, c.EndsAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, c *models.Campaign) error {
	q := txcontext.QuerierFrom(ctx, p.db)
	res, err := q.ExecContext(ctx, `
		UPDATE campaigns
		SET name = $2, region = $3, status = $4, starts_at = $5, ends_at = $6, updated_at = $7
		WHERE id = $1`,
		c.ID.String(), c.Name, c.Region, string(c.Status),
		c.StartsAt, c.EndsAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) FindByID(ctx context.Context, id domain.CampaignID) (*models.Campaign, error) {
	q := txcontext.QuerierFrom(ctx, p.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, region, status, starts_at, ends_at, created_at, updated_at
		FROM campaigns WHERE id = $1`, id.String())
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return c, nil
}

func (p *Postgres) List(ctx context.Context) ([]*models.Campaign, error) {
	q := txcontext.QuerierFrom(ctx, p.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, region, status, starts_at, ends_at, created_at, updated_at
		FROM campaigns ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var (
		c      models.Campaign
		rawID  string
		status string
		endsAt sql.NullTime
	)
	err := row.Scan(&rawID, &c.Name, &c.Region, &status,
		&c.StartsAt, &endsAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseCampaignID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse campaign id: %w", err)
	}
	c.ID = id
	c.Status = models.Status(status)
	if endsAt.Valid {
		ends := endsAt.Time.UTC()
		c.EndsAt = &ends
	}
	return &c, nil
}
