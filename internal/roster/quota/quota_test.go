package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

type stubCounter struct {
	coordinators int
	volunteers   int
	err          error
}

func (s stubCounter) CountAliveVisitCoordinatorsForUpdate(ctx context.Context, campaignID domain.CampaignID, village string) (int, error) {
	return s.coordinators, s.err
}

func (s stubCounter) CountAliveVisitVolunteersForUpdate(ctx context.Context, coordinatorID domain.PersonID) (int, error) {
	return s.volunteers, s.err
}

func TestEnforceVillage(t *testing.T) {
	ctx := context.Background()
	campaignID := domain.NewCampaignID()

	t.Run("below cap passes", func(t *testing.T) {
		e := New(stubCounter{coordinators: VillageVisitCoordinatorCap - 1})
		assert.NoError(t, e.EnforceVillage(ctx, campaignID, "v"))
	})

	t.Run("at cap rejects with the blocking invariant", func(t *testing.T) {
		e := New(stubCounter{coordinators: VillageVisitCoordinatorCap})
		err := e.EnforceVillage(ctx, campaignID, "v")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeQuotaExceeded))
		assert.Contains(t, err.Error(), "village already has 2 active coordinators")
	})

	t.Run("count failure surfaces as internal", func(t *testing.T) {
		e := New(stubCounter{err: errors.New("boom")})
		err := e.EnforceVillage(ctx, campaignID, "v")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestEnforceVisitVolunteers(t *testing.T) {
	ctx := context.Background()
	coordID := domain.NewPersonID()

	t.Run("below cap passes", func(t *testing.T) {
		e := New(stubCounter{volunteers: VisitVolunteerCap - 1})
		assert.NoError(t, e.EnforceVisitVolunteers(ctx, coordID))
	})

	t.Run("at cap rejects", func(t *testing.T) {
		e := New(stubCounter{volunteers: VisitVolunteerCap})
		err := e.EnforceVisitVolunteers(ctx, coordID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeQuotaExceeded))
		assert.Contains(t, err.Error(), "20 active visit-track volunteers")
	})
}
