package service

import (
	"context"

	"canvass/internal/audit"
	"canvass/internal/notify"
	"canvass/internal/roster/models"
	"canvass/internal/roster/upgrade"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/requestcontext"
)

// UpgradeDoubleJob grants the roll track to a visit-only volunteer, acting on
// behalf of the given roll coordinator. The asymmetric rule lives in the
// upgrade package; this wraps it in actor validation and the transaction.
func (s *Service) UpgradeDoubleJob(ctx context.Context, volunteerID, rollCoordinatorID domain.PersonID) (*models.RoleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "roster.UpgradeDoubleJob")
	defer span.End()

	var rec *models.RoleRecord
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		rec, err = s.store.FindByID(txCtx, volunteerID)
		if err != nil {
			return notFoundOrInternal(err, "volunteer not found", "failed to load volunteer")
		}
		if !rec.IsAlive() {
			return dErrors.New(dErrors.CodeNotFound, "volunteer is deleted")
		}

		coord, err := s.store.FindByID(txCtx, rollCoordinatorID)
		if err != nil {
			return notFoundOrInternal(err, "roll coordinator not found", "failed to load roll coordinator")
		}
		if coord.Kind != domain.RoleRollCoordinator || !coord.IsAlive() {
			return dErrors.New(dErrors.CodeInvalidRoleTransition, "upgrade actor must be an active roll coordinator")
		}
		if coord.CampaignID != rec.CampaignID {
			return dErrors.New(dErrors.CodeScopeMismatch, "roll coordinator cannot upgrade outside their own campaign")
		}

		if err := upgrade.Apply(rec, rollCoordinatorID, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.store.Update(txCtx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist upgrade")
		}

		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventDoubleJobUpgraded),
			TargetKind: string(domain.RoleVolunteer),
			TargetName: rec.Name,
			Meta:       map[string]string{"roll_coordinator_id": rollCoordinatorID.String()},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DoubleJobUpgrades.Inc()
	}
	s.dispatch(ctx, notify.Notification{
		Kind:      notify.KindDoubleJobUpgraded,
		Recipient: rec.Name,
		Phone:     rec.Phone,
		Email:     rec.Account.Email,
	})
	if rec.VisitCoordinatorID != nil {
		if coord, err := s.store.FindByID(ctx, *rec.VisitCoordinatorID); err == nil && coord.IsAlive() {
			s.dispatch(ctx, notify.Notification{
				Kind:      notify.KindDoubleJobUpgraded,
				Recipient: coord.Name,
				Phone:     coord.Phone,
				Email:     coord.Account.Email,
				Meta:      map[string]string{"volunteer": rec.Name},
			})
		}
	}
	s.logger.InfoContext(ctx, "double job upgrade applied",
		"person_id", rec.ID, "roll_coordinator_id", rollCoordinatorID)
	return rec, nil
}
