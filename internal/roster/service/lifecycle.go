package service

import (
	"context"

	"canvass/internal/audit"
	"canvass/internal/notify"
	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/requestcontext"
)

// RemoveRole soft-deletes a record and its account. A coordinator with alive
// dependent volunteers is rejected with HasDependents.
func (s *Service) RemoveRole(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "roster.RemoveRole")
	defer span.End()

	var rec *models.RoleRecord
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		rec, err = s.lifecycle.SoftDelete(txCtx, id, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventRoleSoftDeleted),
			TargetKind: string(rec.Kind),
			TargetName: rec.Name,
			Meta:       map[string]string{"campaign_id": rec.CampaignID.String()},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RolesSoftDeleted.Inc()
	}
	s.notifyCoordinators(ctx, rec)
	s.logger.InfoContext(ctx, "role soft deleted", "person_id", rec.ID, "kind", string(rec.Kind))
	return rec, nil
}

// RestoreByIdentity brings back the most recently deleted record holding the
// national ID, reparented into newScope. Returns the record and the rotated
// one-time plaintext password.
func (s *Service) RestoreByIdentity(ctx context.Context, nationalID domain.NationalID, newScope models.Scope) (*models.RoleRecord, string, error) {
	ctx, span := s.tracer.Start(ctx, "roster.RestoreByIdentity")
	defer span.End()

	if err := s.requireActiveCampaign(ctx, newScope.CampaignID); err != nil {
		return nil, "", err
	}

	var (
		rec   *models.RoleRecord
		plain string
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.registry.FindActiveByNationalID(txCtx, nationalID); err == nil {
			return dErrors.New(dErrors.CodeDuplicateIdentity, "national id is already held by an active record")
		} else if !isNotFound(err) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check identity")
		}

		deleted, err := s.registry.FindMostRecentDeleted(txCtx, nationalID)
		if err != nil {
			return notFoundOrInternal(err, "no deleted record holds this national id", "failed to scan deleted records")
		}

		rec, plain, err = s.lifecycle.Restore(txCtx, deleted, newScope, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}

		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventRoleRestored),
			TargetKind: string(rec.Kind),
			TargetName: rec.Name,
			Meta: map[string]string{
				"campaign_id": newScope.CampaignID.String(),
				"village":     newScope.Region.Village,
			},
		})
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeQuotaExceeded) {
			s.countQuotaRejection(ctx, "village", nationalID)
		}
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.RolesRestored.Inc()
		s.metrics.CredentialRotations.Inc()
	}
	s.dispatch(ctx, notify.Notification{
		Kind:      notify.KindRoleRestored,
		Recipient: rec.Name,
		Phone:     rec.Phone,
		Email:     rec.Account.Email,
		Password:  plain,
	})
	s.logger.InfoContext(ctx, "role restored", "person_id", rec.ID, "kind", string(rec.Kind))
	return rec, plain, nil
}

// notifyCoordinators informs a deleted volunteer's coordinators that a
// dependent left their roster.
func (s *Service) notifyCoordinators(ctx context.Context, rec *models.RoleRecord) {
	if rec.Kind != domain.RoleVolunteer {
		return
	}
	for _, coordID := range []*domain.PersonID{rec.VisitCoordinatorID, rec.RollCoordinatorID} {
		if coordID == nil {
			continue
		}
		coord, err := s.store.FindByID(ctx, *coordID)
		if err != nil || !coord.IsAlive() {
			continue
		}
		s.dispatch(ctx, notify.Notification{
			Kind:      notify.KindDependentRemoved,
			Recipient: coord.Name,
			Phone:     coord.Phone,
			Email:     coord.Account.Email,
			Meta:      map[string]string{"volunteer": rec.Name},
		})
	}
}
