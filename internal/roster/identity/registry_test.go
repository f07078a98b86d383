package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"canvass/internal/roster/models"
	"canvass/internal/roster/store"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
)

type RegistrySuite struct {
	suite.Suite

	store    *store.Memory
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.store = store.NewMemory()
	s.registry = New(s.store)
}

func (s *RegistrySuite) insert(kind domain.RoleKind, seq int) *models.RoleRecord {
	nationalID, err := domain.ParseNationalID(fmt.Sprintf("%016d", seq))
	s.Require().NoError(err)
	now := time.Now()

	var rec *models.RoleRecord
	scope := models.Scope{CampaignID: domain.NewCampaignID(), Region: models.Region{Village: "v"}}
	account := models.Account{ID: domain.NewAccountID(), CreatedAt: now, UpdatedAt: now}
	ident := models.Identity{NationalID: nationalID, Name: fmt.Sprintf("Person %d", seq)}

	if kind == domain.RoleVolunteer {
		coordID := domain.NewPersonID()
		scope.VisitCoordinatorID = &coordID
		rec, err = models.NewVolunteer(ident, models.TrackFlags{Visit: true}, scope, account, now)
	} else {
		rec, err = models.NewCoordinator(kind, ident, scope, account, now)
	}
	s.Require().NoError(err)
	s.Require().NoError(s.store.Insert(context.Background(), rec))
	return rec
}

func (s *RegistrySuite) TestFindActiveByNationalID() {
	ctx := context.Background()

	s.Run("unknown id reports not found", func() {
		id, err := domain.ParseNationalID("9999999999999999")
		require.NoError(s.T(), err)
		_, err = s.registry.FindActiveByNationalID(ctx, id)
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("finds an alive holder in any table", func() {
		for i, kind := range []domain.RoleKind{domain.RoleVisitCoordinator, domain.RoleRollCoordinator, domain.RoleVolunteer} {
			rec := s.insert(kind, 100+i)
			got, err := s.registry.FindActiveByNationalID(ctx, rec.NationalID)
			s.Require().NoError(err)
			s.Equal(rec.ID, got.ID)
			s.Equal(kind, got.Kind)
		}
	})

	s.Run("soft deleted holders are invisible", func() {
		rec := s.insert(domain.RoleVolunteer, 200)
		rec.ApplySoftDelete(time.Now())
		s.Require().NoError(s.store.SoftDelete(ctx, rec))

		_, err := s.registry.FindActiveByNationalID(ctx, rec.NationalID)
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})
}

func (s *RegistrySuite) TestFindMostRecentDeleted() {
	ctx := context.Background()

	s.Run("no deleted holder reports not found", func() {
		id, err := domain.ParseNationalID("8888888888888888")
		require.NoError(s.T(), err)
		_, err = s.registry.FindMostRecentDeleted(ctx, id)
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("later deletions take precedence", func() {
		first := s.insert(domain.RoleVolunteer, 300)
		first.ApplySoftDelete(time.Now().Add(-time.Hour))
		s.Require().NoError(s.store.SoftDelete(ctx, first))

		// Same national ID can be re-registered after the delete released
		// the claim; delete the second holder later.
		second := s.insert(domain.RoleVisitCoordinator, 300)
		second.ApplySoftDelete(time.Now())
		s.Require().NoError(s.store.SoftDelete(ctx, second))

		got, err := s.registry.FindMostRecentDeleted(ctx, first.NationalID)
		s.Require().NoError(err)
		s.Equal(second.ID, got.ID)
	})
}
