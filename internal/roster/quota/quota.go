// Package quota enforces the capacity caps on registration scopes. Counts
// run inside the caller's transaction through a locking read, so two
// concurrent registrations against the same scope serialize instead of both
// racing past the cap.
package quota

import (
	"context"

	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// Caps observed in the campaign rulebook. Roll coordinators and roll-track
// volunteers carry no cap.
const (
	VillageVisitCoordinatorCap = 2
	VisitVolunteerCap          = 20
)

// Counter is the locking-read slice of the roster store.
type Counter interface {
	CountAliveVisitCoordinatorsForUpdate(ctx context.Context, campaignID domain.CampaignID, village string) (int, error)
	CountAliveVisitVolunteersForUpdate(ctx context.Context, coordinatorID domain.PersonID) (int, error)
}

// Enforcer checks scope capacity before an insert.
type Enforcer struct {
	counts Counter
}

func New(counts Counter) *Enforcer {
	return &Enforcer{counts: counts}
}

// EnforceVillage fails with CodeQuotaExceeded when the village already holds
// the maximum number of alive visit coordinators.
func (e *Enforcer) EnforceVillage(ctx context.Context, campaignID domain.CampaignID, village string) error {
	count, err := e.counts.CountAliveVisitCoordinatorsForUpdate(ctx, campaignID, village)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count village coordinators")
	}
	if count >= VillageVisitCoordinatorCap {
		return dErrors.Newf(dErrors.CodeQuotaExceeded,
			"village already has %d active coordinators", VillageVisitCoordinatorCap)
	}
	return nil
}

// EnforceVisitVolunteers fails with CodeQuotaExceeded when the coordinator
// already supervises the maximum number of alive visit-track volunteers.
func (e *Enforcer) EnforceVisitVolunteers(ctx context.Context, coordinatorID domain.PersonID) error {
	count, err := e.counts.CountAliveVisitVolunteersForUpdate(ctx, coordinatorID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count visit volunteers")
	}
	if count >= VisitVolunteerCap {
		return dErrors.Newf(dErrors.CodeQuotaExceeded,
			"coordinator already supervises %d active visit-track volunteers", VisitVolunteerCap)
	}
	return nil
}
