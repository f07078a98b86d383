// Package store persists person-role records, their accounts and credential
// history. Two implementations exist: an in-memory store for unit suites and
// a PostgreSQL store for production. Both enforce the identity-claim
// uniqueness so no query path above them can forget the alive/deleted
// filtering.
package store

import (
	"context"
	"time"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
)

// Tx is the transactional boundary for roster mutations. The SQL
// implementation wraps a database transaction; the in-memory one a coarse
// lock. Every write path of the service runs inside RunInTx so decision
// reads and the subsequent write share one transaction.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the full persistence surface. Consumers (identity registry, quota
// enforcer, credential manager, lifecycle machine) each depend on the narrow
// slice they need; this union is what the implementations provide.
type Store interface {
	// Insert writes a record with its owned account and claims its national
	// ID. Returns sentinel.ErrAlreadyUsed when an alive record anywhere
	// already holds the ID.
	Insert(ctx context.Context, rec *models.RoleRecord) error
	// Update persists mutated person and account fields of an existing record.
	Update(ctx context.Context, rec *models.RoleRecord) error
	// SoftDelete persists the deleted state and releases the identity claim.
	SoftDelete(ctx context.Context, rec *models.RoleRecord) error
	// Restore persists the restored state and re-claims the identity.
	// Returns sentinel.ErrAlreadyUsed when the ID was claimed in the
	// meantime.
	Restore(ctx context.Context, rec *models.RoleRecord) error

	FindByID(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error)
	FindAliveByKindAndNationalID(ctx context.Context, kind domain.RoleKind, nationalID domain.NationalID) (*models.RoleRecord, error)
	// FindDeletedByNationalID returns all soft-deleted records holding the
	// ID, most recently deleted first.
	FindDeletedByNationalID(ctx context.Context, nationalID domain.NationalID) ([]*models.RoleRecord, error)

	// CountAliveVisitCoordinatorsForUpdate counts alive visit coordinators in
	// a village under a lock that serializes concurrent registrations against
	// the same scope.
	CountAliveVisitCoordinatorsForUpdate(ctx context.Context, campaignID domain.CampaignID, village string) (int, error)
	// CountAliveVisitVolunteersForUpdate counts alive visit-track volunteers
	// under a coordinator, with the same locking semantics.
	CountAliveVisitVolunteersForUpdate(ctx context.Context, coordinatorID domain.PersonID) (int, error)
	// CountAliveDependents counts alive volunteers reporting to the
	// coordinator on either track.
	CountAliveDependents(ctx context.Context, coordinatorID domain.PersonID) (int, error)

	ListAliveByCoordinator(ctx context.Context, coordinatorID domain.PersonID) ([]*models.RoleRecord, error)
	ListAliveByVillage(ctx context.Context, campaignID domain.CampaignID, village string) ([]*models.RoleRecord, error)

	// EmailInUse reports whether an alive account already uses the email.
	EmailInUse(ctx context.Context, email string) (bool, error)
	UpdateAccountPassword(ctx context.Context, accountID domain.AccountID, passwordHash string, now time.Time) error

	InsertCredential(ctx context.Context, cred *models.Credential) error
	FindActiveCredential(ctx context.Context, accountID domain.AccountID) (*models.Credential, error)
	ListCredentials(ctx context.Context, accountID domain.AccountID) ([]*models.Credential, error)
	DeactivateCredential(ctx context.Context, credentialID domain.CredentialID, usedAt time.Time) error
}
