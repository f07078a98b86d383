package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// RegisterCoordinatorRequestSuite tests RegisterCoordinatorRequest parsing.
type RegisterCoordinatorRequestSuite struct {
	suite.Suite
}

func TestRegisterCoordinatorRequestSuite(t *testing.T) {
	suite.Run(t, new(RegisterCoordinatorRequestSuite))
}

func (s *RegisterCoordinatorRequestSuite) validRequest() *RegisterCoordinatorRequest {
	return &RegisterCoordinatorRequest{
		Kind:       "visit_coordinator",
		NationalID: "3171010101010001",
		Name:       "Budi Santoso",
		CampaignID: "550e8400-e29b-41d4-a716-446655440000",
		Region:     regionPayload{Province: "31", Village: "3171011001"},
	}
}

func (s *RegisterCoordinatorRequestSuite) TestParse() {
	s.Run("valid request parses", func() {
		req := s.validRequest()
		kind, ident, scope, err := req.Parse()
		s.Require().NoError(err)
		s.Equal(domain.RoleVisitCoordinator, kind)
		s.Equal("Budi Santoso", ident.Name)
		s.Equal("3171011001", scope.Region.Village)
	})

	s.Run("unknown kind rejected", func() {
		req := s.validRequest()
		req.Kind = "supervisor"
		_, _, _, err := req.Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("malformed national id rejected", func() {
		req := s.validRequest()
		req.NationalID = "12345"
		_, _, _, err := req.Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("name over the limit rejected", func() {
		req := s.validRequest()
		req.Name = strings.Repeat("a", maxNameLength+1)
		_, _, _, err := req.Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("malformed campaign id rejected", func() {
		req := s.validRequest()
		req.CampaignID = "not-a-uuid"
		_, _, _, err := req.Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *RegisterCoordinatorRequestSuite) TestNormalize() {
	req := s.validRequest()
	req.Name = "  Budi Santoso  "
	req.NationalID = " 3171010101010001 "
	req.Normalize()
	s.Equal("Budi Santoso", req.Name)
	s.Equal("3171010101010001", req.NationalID)
}

// UpdatePersonRequestSuite tests UpdatePersonRequest parsing.
type UpdatePersonRequestSuite struct {
	suite.Suite
}

func TestUpdatePersonRequestSuite(t *testing.T) {
	suite.Run(t, new(UpdatePersonRequestSuite))
}

func (s *UpdatePersonRequestSuite) TestParse() {
	ptr := func(v string) *string { return &v }

	s.Run("empty request is a no-op", func() {
		fields, err := (&UpdatePersonRequest{}).Parse()
		s.Require().NoError(err)
		s.Nil(fields.Name)
		s.Nil(fields.Status)
	})

	s.Run("valid fields carry over", func() {
		req := &UpdatePersonRequest{
			Name:       ptr("Siti Aminah"),
			NationalID: ptr("3171010101010009"),
			Status:     ptr("active"),
		}
		fields, err := req.Parse()
		s.Require().NoError(err)
		s.Equal("Siti Aminah", *fields.Name)
		s.Equal("3171010101010009", fields.NationalID.String())
		s.Equal(models.StatusActive, *fields.Status)
	})

	s.Run("blank name rejected", func() {
		_, err := (&UpdatePersonRequest{Name: ptr("")}).Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown status rejected", func() {
		_, err := (&UpdatePersonRequest{Status: ptr("paused")}).Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("malformed national id rejected", func() {
		_, err := (&UpdatePersonRequest{NationalID: ptr("317101")}).Parse()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
