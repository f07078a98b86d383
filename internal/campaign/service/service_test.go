package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"canvass/internal/audit"
	"canvass/internal/campaign/store"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite

	audits  *audit.MemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.audits = audit.NewMemoryStore()
	s.service = New(store.NewMemory(), WithAuditPublisher(audit.NewPublisher(s.audits)))
}

func (s *ServiceSuite) TestLifecycle() {
	ctx := context.Background()

	c, err := s.service.Create(ctx, "Walikota 2027", "Jakarta")
	s.Require().NoError(err)
	s.True(c.IsActive())
	s.Len(s.audits.ByAction(string(audit.EventCampaignCreated)), 1)

	active, err := s.service.IsActive(ctx, c.ID)
	s.Require().NoError(err)
	s.True(active)

	s.Run("deactivate closes registrations", func() {
		got, err := s.service.Deactivate(ctx, c.ID)
		s.Require().NoError(err)
		s.False(got.IsActive())
		s.NotNil(got.EndsAt)

		_, err = s.service.Deactivate(ctx, c.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("reactivate reopens", func() {
		got, err := s.service.Reactivate(ctx, c.ID)
		s.Require().NoError(err)
		s.True(got.IsActive())
		s.Nil(got.EndsAt)
	})
}

func (s *ServiceSuite) TestValidation() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, "", "Jakarta")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Create(ctx, "Gubernur 2027", "Jakarta")
	s.Require().NoError(err)
	_, err = s.service.Create(ctx, "gubernur 2027", "Bandung")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Get(ctx, domain.NewCampaignID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestList() {
	ctx := context.Background()
	_, err := s.service.Create(ctx, "First", "")
	s.Require().NoError(err)
	_, err = s.service.Create(ctx, "Second", "")
	s.Require().NoError(err)

	out, err := s.service.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("First", out[0].Name)
}
