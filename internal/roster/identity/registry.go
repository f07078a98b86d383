// Package identity answers whether a national ID is currently held anywhere.
// It is the single place that knows the alive/deleted filtering and the
// cross-table precedence, so no caller reimplements either.
package identity

import (
	"context"
	"errors"
	"fmt"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
)

// Store is the read slice of the roster store the registry needs.
type Store interface {
	FindAliveByKindAndNationalID(ctx context.Context, kind domain.RoleKind, nationalID domain.NationalID) (*models.RoleRecord, error)
	FindDeletedByNationalID(ctx context.Context, nationalID domain.NationalID) ([]*models.RoleRecord, error)
}

// Registry is a read-only view over the three role tables.
type Registry struct {
	store Store
}

func New(store Store) *Registry {
	return &Registry{store: store}
}

// Coordinator tables are checked before volunteers: a person may not be
// registered as both, and when scanning for a clash the coordinator record is
// the authoritative answer.
var precedence = []domain.RoleKind{
	domain.RoleVisitCoordinator,
	domain.RoleRollCoordinator,
	domain.RoleVolunteer,
}

// FindActiveByNationalID returns the alive record holding the ID, or
// sentinel.ErrNotFound when no alive record anywhere holds it.
func (r *Registry) FindActiveByNationalID(ctx context.Context, nationalID domain.NationalID) (*models.RoleRecord, error) {
	for _, kind := range precedence {
		rec, err := r.store.FindAliveByKindAndNationalID(ctx, kind, nationalID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("scan %s for %s: %w", kind, nationalID, err)
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindMostRecentDeleted returns the soft-deleted record with the latest
// delete timestamp across all tables, or sentinel.ErrNotFound. Later
// deletions take precedence for restore targeting.
func (r *Registry) FindMostRecentDeleted(ctx context.Context, nationalID domain.NationalID) (*models.RoleRecord, error) {
	recs, err := r.store.FindDeletedByNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("scan deleted records for %s: %w", nationalID, err)
	}
	if len(recs) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return recs[0], nil
}
