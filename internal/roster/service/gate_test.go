package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"canvass/internal/roster/credential"
	"canvass/internal/roster/models"
	"canvass/internal/roster/service"
	"canvass/internal/roster/service/mocks"
	"canvass/internal/roster/store"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

func newGatedService(t *testing.T, ctrl *gomock.Controller) (*service.Service, *mocks.MockCampaignGate, *mocks.MockAuditPublisher) {
	t.Helper()

	mem := store.NewMemory()
	creds, err := credential.New(mem, make([]byte, 32))
	require.NoError(t, err)

	gate := mocks.NewMockCampaignGate(ctrl)
	auditor := mocks.NewMockAuditPublisher(ctrl)
	svc := service.New(store.NewMemoryTx(), mem, creds,
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithCampaignGate(gate),
		service.WithAuditPublisher(auditor),
	)
	return svc, gate, auditor
}

func TestRegisterCoordinator_CampaignGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gate, auditor := newGatedService(t, ctrl)
	campaignID := domain.NewCampaignID()
	nationalID, err := domain.ParseNationalID("3171010101010001")
	require.NoError(t, err)

	ident := models.Identity{NationalID: nationalID, Name: "Gated Coordinator"}
	scope := models.Scope{
		CampaignID: campaignID,
		Region:     models.Region{Village: "3171011001"},
	}

	t.Run("inactive campaign rejects registration", func(t *testing.T) {
		gate.EXPECT().IsActive(gomock.Any(), campaignID).Return(false, nil)

		_, _, err := svc.RegisterCoordinator(context.Background(), domain.RoleVisitCoordinator, ident, scope)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("active campaign registers and emits audit", func(t *testing.T) {
		gate.EXPECT().IsActive(gomock.Any(), campaignID).Return(true, nil)
		auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		rec, plain, err := svc.RegisterCoordinator(context.Background(), domain.RoleVisitCoordinator, ident, scope)
		require.NoError(t, err)
		assert.NotEmpty(t, plain)
		assert.Equal(t, campaignID, rec.CampaignID)
	})
}
