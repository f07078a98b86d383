package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
	txcontext "canvass/pkg/platform/tx"
)

// Postgres persists roster state in PostgreSQL. The three role kinds live in
// three tables of identical shape; cross-table national-ID uniqueness is
// enforced by the identity_claims mirror table, whose partial unique index
// covers alive claims only.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed roster store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema creates the roster tables. Invoked by the integration suite and by
// deploy tooling; IF NOT EXISTS keeps it idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	display_name TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role_kind TEXT NOT NULL,
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_alive
	ON accounts (lower(email)) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS visit_coordinators (
	id UUID PRIMARY KEY,
	national_id TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	campaign_id UUID NOT NULL,
	province TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	village TEXT NOT NULL DEFAULT '',
	visit_coordinator_id UUID,
	roll_coordinator_id UUID,
	visit_track BOOLEAN NOT NULL DEFAULT FALSE,
	roll_track BOOLEAN NOT NULL DEFAULT FALSE,
	account_id UUID NOT NULL REFERENCES accounts(id),
	status TEXT NOT NULL,
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS roll_coordinators (LIKE visit_coordinators INCLUDING ALL);
CREATE TABLE IF NOT EXISTS volunteers (LIKE visit_coordinators INCLUDING ALL);

CREATE TABLE IF NOT EXISTS identity_claims (
	national_id TEXT NOT NULL,
	role_kind TEXT NOT NULL,
	record_id UUID NOT NULL,
	claimed_at TIMESTAMPTZ NOT NULL,
	released_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS identity_claims_alive
	ON identity_claims (national_id) WHERE released_at IS NULL;

CREATE TABLE IF NOT EXISTS credentials (
	id UUID PRIMARY KEY,
	account_id UUID NOT NULL REFERENCES accounts(id),
	encrypted_password TEXT NOT NULL,
	kind TEXT NOT NULL,
	active BOOLEAN NOT NULL,
	used_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS credentials_one_active
	ON credentials (account_id) WHERE active;
`

// EnsureSchema applies the roster schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply roster schema: %w", err)
	}
	return nil
}

func tableFor(kind domain.RoleKind) (string, error) {
	switch kind {
	case domain.RoleVisitCoordinator:
		return "visit_coordinators", nil
	case domain.RoleRollCoordinator:
		return "roll_coordinators", nil
	case domain.RoleVolunteer:
		return "volunteers", nil
	}
	return "", fmt.Errorf("unknown role kind %q", kind)
}

var roleKindsByPrecedence = []domain.RoleKind{
	domain.RoleVisitCoordinator,
	domain.RoleRollCoordinator,
	domain.RoleVolunteer,
}

const recordColumns = `r.id, r.national_id, r.name, r.phone, r.address, r.campaign_id,
	r.province, r.city, r.district, r.village,
	r.visit_coordinator_id, r.roll_coordinator_id, r.visit_track, r.roll_track,
	r.status, r.deleted_at, r.created_at, r.updated_at,
	a.id, a.display_name, a.email, a.password_hash, a.role_kind, a.deleted_at, a.created_at, a.updated_at`

func (p *Postgres) q(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, p.db)
}

func (p *Postgres) Insert(ctx context.Context, rec *models.RoleRecord) error {
	table, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	q := p.q(ctx)

	_, err = q.ExecContext(ctx, `
		INSERT INTO identity_claims (national_id, role_kind, record_id, claimed_at)
		VALUES ($1, $2, $3, $4)`,
		rec.NationalID.String(), string(rec.Kind), rec.ID.String(), rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("claim identity: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO accounts (id, display_name, email, password_hash, role_kind, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.Account.ID.String(), rec.Account.DisplayName, rec.Account.Email,
		rec.Account.PasswordHash, string(rec.Account.RoleKind), rec.Account.DeletedAt,
		rec.Account.CreatedAt, rec.Account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert account: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO `+table+` (id, national_id, name, phone, address, campaign_id,
			province, city, district, village,
			visit_coordinator_id, roll_coordinator_id, visit_track, roll_track,
			account_id, status, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		rec.ID.String(), rec.NationalID.String(), rec.Name, rec.Phone, rec.Address,
		rec.CampaignID.String(), rec.Region.Province, rec.Region.City, rec.Region.District,
		rec.Region.Village, personIDOrNil(rec.VisitCoordinatorID), personIDOrNil(rec.RollCoordinatorID),
		rec.Tracks.Visit, rec.Tracks.Roll, rec.Account.ID.String(), string(rec.Status),
		rec.DeletedAt, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, rec *models.RoleRecord) error {
	table, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	q := p.q(ctx)

	// Move the identity claim when the national ID changed. Releasing the
	// stale claim first keeps the partial unique index authoritative.
	res, err := q.ExecContext(ctx, `
		UPDATE identity_claims SET released_at = $3
		WHERE record_id = $1 AND released_at IS NULL AND national_id <> $2`,
		rec.ID.String(), rec.NationalID.String(), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("release stale identity claim: %w", err)
	}
	if moved, _ := res.RowsAffected(); moved > 0 {
		_, err = q.ExecContext(ctx, `
			INSERT INTO identity_claims (national_id, role_kind, record_id, claimed_at)
			VALUES ($1, $2, $3, $4)`,
			rec.NationalID.String(), string(rec.Kind), rec.ID.String(), rec.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("claim identity: %w", err)
		}
	}

	res, err = q.ExecContext(ctx, `
		UPDATE `+table+` SET national_id = $2, name = $3, phone = $4, address = $5,
			campaign_id = $6, province = $7, city = $8, district = $9, village = $10,
			visit_coordinator_id = $11, roll_coordinator_id = $12,
			visit_track = $13, roll_track = $14, status = $15, updated_at = $16
		WHERE id = $1`,
		rec.ID.String(), rec.NationalID.String(), rec.Name, rec.Phone, rec.Address,
		rec.CampaignID.String(), rec.Region.Province, rec.Region.City, rec.Region.District,
		rec.Region.Village, personIDOrNil(rec.VisitCoordinatorID), personIDOrNil(rec.RollCoordinatorID),
		rec.Tracks.Visit, rec.Tracks.Roll, string(rec.Status), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}

	_, err = q.ExecContext(ctx, `
		UPDATE accounts SET display_name = $2, updated_at = $3 WHERE id = $1`,
		rec.Account.ID.String(), rec.Account.DisplayName, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (p *Postgres) SoftDelete(ctx context.Context, rec *models.RoleRecord) error {
	table, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	q := p.q(ctx)

	res, err := q.ExecContext(ctx, `
		UPDATE `+table+` SET status = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		rec.ID.String(), string(rec.Status), rec.DeletedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE accounts SET deleted_at = $2, updated_at = $3 WHERE id = $1`,
		rec.Account.ID.String(), rec.Account.DeletedAt, rec.UpdatedAt); err != nil {
		return fmt.Errorf("cascade account delete: %w", err)
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE identity_claims SET released_at = $3
		WHERE national_id = $1 AND record_id = $2 AND released_at IS NULL`,
		rec.NationalID.String(), rec.ID.String(), rec.UpdatedAt); err != nil {
		return fmt.Errorf("release identity claim: %w", err)
	}
	return nil
}

func (p *Postgres) Restore(ctx context.Context, rec *models.RoleRecord) error {
	q := p.q(ctx)

	_, err := q.ExecContext(ctx, `
		INSERT INTO identity_claims (national_id, role_kind, record_id, claimed_at)
		VALUES ($1, $2, $3, $4)`,
		rec.NationalID.String(), string(rec.Kind), rec.ID.String(), rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("re-claim identity: %w", err)
	}

	if err := p.Update(ctx, rec); err != nil {
		return err
	}

	table, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `
		UPDATE `+table+` SET deleted_at = NULL WHERE id = $1`, rec.ID.String()); err != nil {
		return fmt.Errorf("clear delete timestamp: %w", err)
	}
	if _, err := q.ExecContext(ctx, `
		UPDATE accounts SET deleted_at = NULL, updated_at = $2 WHERE id = $1`,
		rec.Account.ID.String(), rec.UpdatedAt); err != nil {
		return fmt.Errorf("restore account: %w", err)
	}
	return nil
}

func (p *Postgres) FindByID(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error) {
	for _, kind := range roleKindsByPrecedence {
		rec, err := p.findOne(ctx, kind, `r.id = $1`, id.String())
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
	}
	return nil, sentinel.ErrNotFound
}

func (p *Postgres) FindAliveByKindAndNationalID(ctx context.Context, kind domain.RoleKind, nationalID domain.NationalID) (*models.RoleRecord, error) {
	return p.findOne(ctx, kind, `r.national_id = $1 AND r.deleted_at IS NULL`, nationalID.String())
}

func (p *Postgres) FindDeletedByNationalID(ctx context.Context, nationalID domain.NationalID) ([]*models.RoleRecord, error) {
	var out []*models.RoleRecord
	for _, kind := range roleKindsByPrecedence {
		recs, err := p.findMany(ctx, kind, `r.national_id = $1 AND r.deleted_at IS NOT NULL`, nationalID.String())
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	// Later deletions take precedence for restore targeting.
	sortDeletedDesc(out)
	return out, nil
}

func (p *Postgres) CountAliveVisitCoordinatorsForUpdate(ctx context.Context, campaignID domain.CampaignID, village string) (int, error) {
	scopeKey := "village:" + campaignID.String() + ":" + village
	return p.lockedCount(ctx, scopeKey, `
		SELECT COUNT(*) FROM visit_coordinators
		WHERE campaign_id = $1 AND village = $2 AND deleted_at IS NULL`,
		campaignID.String(), village)
}

func (p *Postgres) CountAliveVisitVolunteersForUpdate(ctx context.Context, coordinatorID domain.PersonID) (int, error) {
	scopeKey := "visit-coordinator:" + coordinatorID.String()
	return p.lockedCount(ctx, scopeKey, `
		SELECT COUNT(*) FROM volunteers
		WHERE visit_coordinator_id = $1 AND visit_track AND deleted_at IS NULL`,
		coordinatorID.String())
}

// lockedCount serializes concurrent registrations against one scope with a
// transaction-scoped advisory lock before counting. A plain FOR UPDATE on the
// counted rows cannot serialize an empty scope (no rows to lock), the
// advisory lock covers that case too.
func (p *Postgres) lockedCount(ctx context.Context, scopeKey, query string, args ...any) (int, error) {
	if _, inTx := txcontext.From(ctx); !inTx {
		return 0, fmt.Errorf("locked count for %s requires a transaction", scopeKey)
	}
	q := p.q(ctx)
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scopeKey); err != nil {
		return 0, fmt.Errorf("acquire scope lock %s: %w", scopeKey, err)
	}
	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count scope %s: %w", scopeKey, err)
	}
	return count, nil
}

func (p *Postgres) CountAliveDependents(ctx context.Context, coordinatorID domain.PersonID) (int, error) {
	var count int
	err := p.q(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM volunteers
		WHERE (visit_coordinator_id = $1 OR roll_coordinator_id = $1) AND deleted_at IS NULL`,
		coordinatorID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count dependents: %w", err)
	}
	return count, nil
}

func (p *Postgres) ListAliveByCoordinator(ctx context.Context, coordinatorID domain.PersonID) ([]*models.RoleRecord, error) {
	return p.findMany(ctx, domain.RoleVolunteer,
		`(r.visit_coordinator_id = $1 OR r.roll_coordinator_id = $1) AND r.deleted_at IS NULL ORDER BY r.created_at`,
		coordinatorID.String())
}

func (p *Postgres) ListAliveByVillage(ctx context.Context, campaignID domain.CampaignID, village string) ([]*models.RoleRecord, error) {
	var out []*models.RoleRecord
	for _, kind := range roleKindsByPrecedence {
		recs, err := p.findMany(ctx, kind,
			`r.campaign_id = $1 AND r.village = $2 AND r.deleted_at IS NULL ORDER BY r.created_at`,
			campaignID.String(), village)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func (p *Postgres) EmailInUse(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := p.q(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1) AND deleted_at IS NULL)`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (p *Postgres) UpdateAccountPassword(ctx context.Context, accountID domain.AccountID, passwordHash string, now time.Time) error {
	res, err := p.q(ctx).ExecContext(ctx, `
		UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		accountID.String(), passwordHash, now)
	if err != nil {
		return fmt.Errorf("update account password: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) InsertCredential(ctx context.Context, cred *models.Credential) error {
	_, err := p.q(ctx).ExecContext(ctx, `
		INSERT INTO credentials (id, account_id, encrypted_password, kind, active, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cred.ID.String(), cred.AccountID.String(), cred.EncryptedPassword,
		string(cred.Kind), cred.Active, cred.UsedAt, cred.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (p *Postgres) FindActiveCredential(ctx context.Context, accountID domain.AccountID) (*models.Credential, error) {
	row := p.q(ctx).QueryRowContext(ctx, `
		SELECT id, account_id, encrypted_password, kind, active, used_at, created_at
		FROM credentials WHERE account_id = $1 AND active`,
		accountID.String())
	return scanCredential(row)
}

func (p *Postgres) ListCredentials(ctx context.Context, accountID domain.AccountID) ([]*models.Credential, error) {
	rows, err := p.q(ctx).QueryContext(ctx, `
		SELECT id, account_id, encrypted_password, kind, active, used_at, created_at
		FROM credentials WHERE account_id = $1 ORDER BY created_at`,
		accountID.String())
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cred)
	}
	return out, rows.Err()
}

func (p *Postgres) DeactivateCredential(ctx context.Context, credentialID domain.CredentialID, usedAt time.Time) error {
	res, err := p.q(ctx).ExecContext(ctx, `
		UPDATE credentials SET active = FALSE, used_at = $2 WHERE id = $1`,
		credentialID.String(), usedAt)
	if err != nil {
		return fmt.Errorf("deactivate credential: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) findOne(ctx context.Context, kind domain.RoleKind, where string, args ...any) (*models.RoleRecord, error) {
	recs, err := p.findMany(ctx, kind, where, args...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return recs[0], nil
}

func (p *Postgres) findMany(ctx context.Context, kind domain.RoleKind, where string, args ...any) ([]*models.RoleRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := p.q(ctx).QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM `+table+` r JOIN accounts a ON a.id = r.account_id
		WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []*models.RoleRecord
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, kind domain.RoleKind) (*models.RoleRecord, error) {
	var (
		rec                  models.RoleRecord
		idStr, campaignStr   string
		nationalID           string
		visitCoord, rollCord sql.NullString
		accountID, roleKind  string
		deletedAt, acctDel   sql.NullTime
		status               string
	)
	err := row.Scan(
		&idStr, &nationalID, &rec.Name, &rec.Phone, &rec.Address, &campaignStr,
		&rec.Region.Province, &rec.Region.City, &rec.Region.District, &rec.Region.Village,
		&visitCoord, &rollCord, &rec.Tracks.Visit, &rec.Tracks.Roll,
		&status, &deletedAt, &rec.CreatedAt, &rec.UpdatedAt,
		&accountID, &rec.Account.DisplayName, &rec.Account.Email, &rec.Account.PasswordHash,
		&roleKind, &acctDel, &rec.Account.CreatedAt, &rec.Account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}

	pid, err := domain.ParsePersonID(idStr)
	if err != nil {
		return nil, err
	}
	cid, err := domain.ParseCampaignID(campaignStr)
	if err != nil {
		return nil, err
	}
	rec.ID = pid
	rec.Kind = kind
	rec.NationalID = domain.NationalID(nationalID)
	rec.CampaignID = cid
	rec.Status = models.Status(status)
	if deletedAt.Valid {
		t := deletedAt.Time
		rec.DeletedAt = &t
	}
	if visitCoord.Valid {
		vid, err := domain.ParsePersonID(visitCoord.String)
		if err != nil {
			return nil, err
		}
		rec.VisitCoordinatorID = &vid
	}
	if rollCord.Valid {
		rid, err := domain.ParsePersonID(rollCord.String)
		if err != nil {
			return nil, err
		}
		rec.RollCoordinatorID = &rid
	}

	aid, err := domain.ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	rec.Account.ID = aid
	rec.Account.RoleKind = domain.RoleKind(roleKind)
	if acctDel.Valid {
		t := acctDel.Time
		rec.Account.DeletedAt = &t
	}
	return &rec, nil
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var (
		cred           models.Credential
		idStr, acctStr string
		kind           string
		usedAt         sql.NullTime
	)
	err := row.Scan(&idStr, &acctStr, &cred.EncryptedPassword, &kind, &cred.Active, &usedAt, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	cu, err := domain.ParseCredentialID(idStr)
	if err != nil {
		return nil, err
	}
	au, err := domain.ParseAccountID(acctStr)
	if err != nil {
		return nil, err
	}
	cred.ID = cu
	cred.AccountID = au
	cred.Kind = models.CredentialKind(kind)
	if usedAt.Valid {
		t := usedAt.Time
		cred.UsedAt = &t
	}
	return &cred, nil
}

func sortDeletedDesc(recs []*models.RoleRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].DeletedAt.After(*recs[j].DeletedAt)
	})
}

func personIDOrNil(id *domain.PersonID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
