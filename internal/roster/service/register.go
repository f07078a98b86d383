package service

import (
	"context"
	"errors"
	"time"

	"canvass/internal/audit"
	"canvass/internal/notify"
	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
	"canvass/pkg/requestcontext"
)

// RegisterCoordinator creates a coordinator record with its paired account
// and initial credential in one transaction. Returns the record and the
// one-time plaintext password for operator display.
func (s *Service) RegisterCoordinator(ctx context.Context, kind domain.RoleKind, ident models.Identity, scope models.Scope) (*models.RoleRecord, string, error) {
	ctx, span := s.tracer.Start(ctx, "roster.RegisterCoordinator")
	defer span.End()

	if !kind.IsCoordinator() {
		return nil, "", dErrors.Newf(dErrors.CodeValidation, "%s is not a coordinator kind", kind)
	}
	if err := s.requireActiveCampaign(ctx, scope.CampaignID); err != nil {
		return nil, "", err
	}

	var (
		rec   *models.RoleRecord
		plain string
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkIdentityFree(txCtx, ident.NationalID); err != nil {
			return err
		}
		if kind == domain.RoleVisitCoordinator {
			if err := s.quota.EnforceVillage(txCtx, scope.CampaignID, scope.Region.Village); err != nil {
				return err
			}
		}

		var err error
		rec, plain, err = s.createRecord(txCtx, func(account models.Account, now time.Time) (*models.RoleRecord, error) {
			return models.NewCoordinator(kind, ident, scope, account, now)
		}, ident.Name, kind)
		if err != nil {
			return err
		}

		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventCoordinatorRegistered),
			TargetKind: string(kind),
			TargetName: rec.Name,
			Meta: map[string]string{
				"campaign_id": scope.CampaignID.String(),
				"village":     scope.Region.Village,
			},
		})
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeQuotaExceeded) {
			s.countQuotaRejection(ctx, "village", ident.NationalID)
		}
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.CoordinatorsRegistered.WithLabelValues(string(kind)).Inc()
	}
	s.dispatch(ctx, notify.Notification{
		Kind:      notify.KindWelcome,
		Recipient: rec.Name,
		Phone:     rec.Phone,
		Email:     rec.Account.Email,
		Password:  plain,
	})
	s.logger.InfoContext(ctx, "coordinator registered",
		"person_id", rec.ID, "kind", string(kind), "village", scope.Region.Village)
	return rec, plain, nil
}

// RegisterVolunteer creates a volunteer under the acting coordinator. The
// volunteer must report to the actor on the actor's own track and within the
// actor's campaign; a roll coordinator may not request the visit flag.
func (s *Service) RegisterVolunteer(ctx context.Context, actorID domain.PersonID, ident models.Identity, tracks models.TrackFlags, scope models.Scope) (*models.RoleRecord, string, error) {
	ctx, span := s.tracer.Start(ctx, "roster.RegisterVolunteer")
	defer span.End()

	if err := s.requireActiveCampaign(ctx, scope.CampaignID); err != nil {
		return nil, "", err
	}

	var (
		rec   *models.RoleRecord
		plain string
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		actor, err := s.store.FindByID(txCtx, actorID)
		if err != nil {
			return notFoundOrInternal(err, "acting coordinator not found", "failed to load acting coordinator")
		}
		if err := validateActor(actor, tracks, scope); err != nil {
			return err
		}
		if err := s.checkIdentityFree(txCtx, ident.NationalID); err != nil {
			return err
		}
		if tracks.Visit {
			if scope.VisitCoordinatorID == nil {
				return dErrors.New(dErrors.CodeValidation, "visit-track volunteer requires a visit coordinator")
			}
			if err := s.quota.EnforceVisitVolunteers(txCtx, *scope.VisitCoordinatorID); err != nil {
				return err
			}
		}

		rec, plain, err = s.createRecord(txCtx, func(account models.Account, now time.Time) (*models.RoleRecord, error) {
			return models.NewVolunteer(ident, tracks, scope, account, now)
		}, ident.Name, domain.RoleVolunteer)
		if err != nil {
			return err
		}

		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventVolunteerRegistered),
			TargetKind: string(domain.RoleVolunteer),
			TargetName: rec.Name,
			Meta: map[string]string{
				"campaign_id": scope.CampaignID.String(),
				"actor_id":    actorID.String(),
			},
		})
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeQuotaExceeded) {
			s.countQuotaRejection(ctx, "visit_coordinator", ident.NationalID)
		}
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.VolunteersRegistered.Inc()
	}
	s.dispatch(ctx, notify.Notification{
		Kind:      notify.KindWelcome,
		Recipient: rec.Name,
		Phone:     rec.Phone,
		Email:     rec.Account.Email,
		Password:  plain,
	})
	s.logger.InfoContext(ctx, "volunteer registered",
		"person_id", rec.ID, "actor_id", actorID)
	return rec, plain, nil
}

// validateActor enforces the actor-side rules of volunteer registration.
func validateActor(actor *models.RoleRecord, tracks models.TrackFlags, scope models.Scope) error {
	if !actor.Kind.IsCoordinator() || !actor.IsAlive() {
		return dErrors.New(dErrors.CodeNotFound, "acting coordinator not found")
	}
	if actor.CampaignID != scope.CampaignID {
		return dErrors.New(dErrors.CodeScopeMismatch, "coordinator cannot register outside their own campaign")
	}
	switch actor.Kind {
	case domain.RoleRollCoordinator:
		if tracks.Visit {
			return dErrors.New(dErrors.CodeInvalidRoleTransition, "a roll coordinator cannot grant the visit track")
		}
		if scope.RollCoordinatorID == nil || *scope.RollCoordinatorID != actor.ID {
			return dErrors.New(dErrors.CodeScopeMismatch, "volunteer must report to the acting roll coordinator")
		}
	case domain.RoleVisitCoordinator:
		if tracks.Visit && (scope.VisitCoordinatorID == nil || *scope.VisitCoordinatorID != actor.ID) {
			return dErrors.New(dErrors.CodeScopeMismatch, "volunteer must report to the acting visit coordinator")
		}
	}
	return nil
}

// createRecord runs the shared tail of both registration paths: derive the
// credential pair, build the account, construct the record via build, insert
// it and write the initial credential. Must run inside the caller's
// transaction.
func (s *Service) createRecord(ctx context.Context, build func(models.Account, time.Time) (*models.RoleRecord, error), name string, kind domain.RoleKind) (*models.RoleRecord, string, error) {
	now := requestcontext.Now(ctx)

	email, plain, err := s.credentials.GenerateCredentialPair(ctx, name)
	if err != nil {
		return nil, "", err
	}
	hash, err := s.credentials.HashPassword(plain)
	if err != nil {
		return nil, "", err
	}
	account := models.Account{
		ID:           domain.NewAccountID(),
		DisplayName:  name,
		Email:        email,
		PasswordHash: hash,
		RoleKind:     kind,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	rec, err := build(account, now)
	if err != nil {
		return nil, "", err
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, "", dErrors.New(dErrors.CodeDuplicateIdentity, "national id is already registered to an active record")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert role record")
	}
	if _, err := s.credentials.IssueInitial(ctx, rec.Account.ID, plain, now); err != nil {
		return nil, "", err
	}
	return rec, plain, nil
}
