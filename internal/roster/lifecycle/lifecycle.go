// Package lifecycle drives person-role records through
// Active/Inactive ⇄ Deleted and the restore-with-reparenting path. Validation
// happens before any write; the caller supplies the transaction.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"canvass/internal/roster/credential"
	"canvass/internal/roster/models"
	"canvass/internal/roster/quota"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
)

// Store is the lifecycle slice of the roster store.
type Store interface {
	FindByID(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error)
	SoftDelete(ctx context.Context, rec *models.RoleRecord) error
	Restore(ctx context.Context, rec *models.RoleRecord) error
	CountAliveDependents(ctx context.Context, coordinatorID domain.PersonID) (int, error)
}

// Machine applies lifecycle transitions. It owns the dependent guard and the
// restore rules; identity clash checks belong to the caller (they need the
// registry view).
type Machine struct {
	store       Store
	quota       *quota.Enforcer
	credentials *credential.Manager
}

func New(store Store, quotaEnforcer *quota.Enforcer, credentials *credential.Manager) *Machine {
	return &Machine{store: store, quota: quotaEnforcer, credentials: credentials}
}

// SoftDelete transitions an alive record to Deleted and cascades to its
// account. A coordinator with alive dependent volunteers cannot be deleted.
func (m *Machine) SoftDelete(ctx context.Context, id domain.PersonID, now time.Time) (*models.RoleRecord, error) {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "role record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role record")
	}
	if err := rec.CanSoftDelete(); err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "role record is already deleted")
	}

	if rec.Kind.IsCoordinator() {
		dependents, err := m.store.CountAliveDependents(ctx, rec.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count dependents")
		}
		if dependents > 0 {
			return nil, dErrors.Newf(dErrors.CodeHasDependents,
				"coordinator still has %d active volunteers", dependents)
		}
	}

	rec.ApplySoftDelete(now)
	if err := m.store.SoftDelete(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to soft delete role record")
	}
	return rec, nil
}

// Restore brings a deleted record back as Inactive under a possibly different
// campaign/coordinator/village ("reparenting") and rotates its credential:
// the old login material cannot be trusted to still be known only by the
// rightful holder. Returns the record and the one-time plaintext password.
//
// Preconditions checked here: the record is deleted, the new scope is
// consistent with the record's kind and tracks, and a restored visit
// coordinator fits the target village quota. The no-alive-clash check is the
// caller's job; the store's identity claim backstops it.
func (m *Machine) Restore(ctx context.Context, rec *models.RoleRecord, newScope models.Scope, now time.Time) (*models.RoleRecord, string, error) {
	if err := rec.CanRestore(); err != nil {
		return nil, "", dErrors.New(dErrors.CodeInvariantViolation, "record is not deleted")
	}
	if err := validateScope(rec, newScope); err != nil {
		return nil, "", err
	}
	if rec.Kind == domain.RoleVisitCoordinator {
		if err := m.quota.EnforceVillage(ctx, newScope.CampaignID, newScope.Region.Village); err != nil {
			return nil, "", err
		}
	}
	if rec.Kind == domain.RoleVolunteer && rec.Tracks.Visit && newScope.VisitCoordinatorID != nil {
		if err := m.quota.EnforceVisitVolunteers(ctx, *newScope.VisitCoordinatorID); err != nil {
			return nil, "", err
		}
	}

	rec.ApplyRestore(newScope, now)
	if err := m.store.Restore(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, "", dErrors.New(dErrors.CodeDuplicateIdentity,
				"national id was claimed while the restore was in flight")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore role record")
	}

	plain, hash, err := m.credentials.Rotate(ctx, rec.Account.ID, now)
	if err != nil {
		return nil, "", err
	}
	rec.Account.PasswordHash = hash
	rec.Account.UpdatedAt = now
	return rec, plain, nil
}

func validateScope(rec *models.RoleRecord, scope models.Scope) error {
	if scope.CampaignID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "restore target campaign is required")
	}
	if rec.Kind.IsCoordinator() && scope.Region.Village == "" {
		return dErrors.New(dErrors.CodeValidation, "restore target village is required for a coordinator")
	}
	if rec.Kind == domain.RoleVolunteer {
		if rec.Tracks.Visit && scope.VisitCoordinatorID == nil {
			return dErrors.New(dErrors.CodeValidation, "visit-track volunteer requires a visit coordinator in the new scope")
		}
		if rec.Tracks.Roll && scope.RollCoordinatorID == nil {
			return dErrors.New(dErrors.CodeValidation, "roll-track volunteer requires a roll coordinator in the new scope")
		}
	}
	return nil
}
