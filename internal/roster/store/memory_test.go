package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
)

type MemorySuite struct {
	suite.Suite

	store *Memory
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.store = NewMemory()
}

func (s *MemorySuite) record(kind domain.RoleKind, seq int) *models.RoleRecord {
	nationalID, err := domain.ParseNationalID(fmt.Sprintf("%016d", seq))
	s.Require().NoError(err)
	now := time.Now()

	scope := models.Scope{CampaignID: domain.NewCampaignID(), Region: models.Region{Village: "v"}}
	account := models.Account{
		ID:        domain.NewAccountID(),
		Email:     fmt.Sprintf("holder%d@canvass.local", seq),
		CreatedAt: now,
		UpdatedAt: now,
	}
	ident := models.Identity{NationalID: nationalID, Name: fmt.Sprintf("Person %d", seq)}

	if kind == domain.RoleVolunteer {
		coordID := domain.NewPersonID()
		scope.VisitCoordinatorID = &coordID
		rec, err := models.NewVolunteer(ident, models.TrackFlags{Visit: true}, scope, account, now)
		s.Require().NoError(err)
		return rec
	}
	rec, err := models.NewCoordinator(kind, ident, scope, account, now)
	s.Require().NoError(err)
	return rec
}

func (s *MemorySuite) TestIdentityClaim() {
	ctx := context.Background()

	s.Run("second alive holder of the same national id is rejected", func() {
		first := s.record(domain.RoleVisitCoordinator, 1)
		s.Require().NoError(s.store.Insert(ctx, first))

		second := s.record(domain.RoleVolunteer, 2)
		second.NationalID = first.NationalID
		err := s.store.Insert(ctx, second)
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrAlreadyUsed))
	})

	s.Run("soft delete releases the claim, restore re-takes it", func() {
		rec := s.record(domain.RoleRollCoordinator, 3)
		s.Require().NoError(s.store.Insert(ctx, rec))

		rec.ApplySoftDelete(time.Now())
		s.Require().NoError(s.store.SoftDelete(ctx, rec))

		// The released claim is free for a new record.
		other := s.record(domain.RoleVolunteer, 4)
		other.NationalID = rec.NationalID
		s.Require().NoError(s.store.Insert(ctx, other))

		// Restoring the deleted holder now collides.
		rec.ApplyRestore(rec.CurrentScope(), time.Now())
		err := s.store.Restore(ctx, rec)
		s.Require().Error(err)
		s.True(errors.Is(err, sentinel.ErrAlreadyUsed))
	})

	s.Run("update preserves the persisted account hash", func() {
		rec := s.record(domain.RoleVisitCoordinator, 7)
		s.Require().NoError(s.store.Insert(ctx, rec))
		s.Require().NoError(s.store.UpdateAccountPassword(ctx, rec.Account.ID, "rotated-hash", time.Now()))

		// A record write with a stale aggregate must not clobber the hash.
		rec.Name = "Renamed Holder"
		rec.Account.DisplayName = rec.Name
		s.Require().NoError(s.store.Update(ctx, rec))

		got, err := s.store.FindByID(ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal("rotated-hash", got.Account.PasswordHash)
		s.Equal("Renamed Holder", got.Account.DisplayName)
	})

	s.Run("update moves the claim on national id change", func() {
		rec := s.record(domain.RoleVisitCoordinator, 5)
		s.Require().NoError(s.store.Insert(ctx, rec))

		fresh, err := domain.ParseNationalID("0000000000000555")
		s.Require().NoError(err)
		rec.NationalID = fresh
		s.Require().NoError(s.store.Update(ctx, rec))

		// The old value is free again.
		again := s.record(domain.RoleVolunteer, 5)
		s.Require().NoError(s.store.Insert(ctx, again))
	})
}

func (s *MemorySuite) TestCounts() {
	ctx := context.Background()

	coord := s.record(domain.RoleVisitCoordinator, 10)
	s.Require().NoError(s.store.Insert(ctx, coord))

	for i := 0; i < 3; i++ {
		vol := s.record(domain.RoleVolunteer, 11+i)
		vol.VisitCoordinatorID = &coord.ID
		s.Require().NoError(s.store.Insert(ctx, vol))
	}

	count, err := s.store.CountAliveVisitVolunteersForUpdate(ctx, coord.ID)
	s.Require().NoError(err)
	s.Equal(3, count)

	deps, err := s.store.CountAliveDependents(ctx, coord.ID)
	s.Require().NoError(err)
	s.Equal(3, deps)

	// Deleted volunteers leave the counts.
	vols, err := s.store.ListAliveByCoordinator(ctx, coord.ID)
	s.Require().NoError(err)
	s.Require().Len(vols, 3)
	vols[0].ApplySoftDelete(time.Now())
	s.Require().NoError(s.store.SoftDelete(ctx, vols[0]))

	count, err = s.store.CountAliveVisitVolunteersForUpdate(ctx, coord.ID)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *MemorySuite) TestCloneIsolation() {
	ctx := context.Background()
	rec := s.record(domain.RoleVisitCoordinator, 20)
	s.Require().NoError(s.store.Insert(ctx, rec))

	got, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	got.Name = "Mutated Caller Copy"

	again, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.NotEqual("Mutated Caller Copy", again.Name)
}

func (s *MemorySuite) TestEmailInUse() {
	ctx := context.Background()
	rec := s.record(domain.RoleVisitCoordinator, 30)
	s.Require().NoError(s.store.Insert(ctx, rec))

	used, err := s.store.EmailInUse(ctx, rec.Account.Email)
	s.Require().NoError(err)
	s.True(used)

	used, err = s.store.EmailInUse(ctx, "free@canvass.local")
	s.Require().NoError(err)
	s.False(used)

	// A deleted account no longer holds its email.
	rec.ApplySoftDelete(time.Now())
	s.Require().NoError(s.store.SoftDelete(ctx, rec))
	used, err = s.store.EmailInUse(ctx, rec.Account.Email)
	s.Require().NoError(err)
	s.False(used)
}
