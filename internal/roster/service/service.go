// Package service is the orchestrating façade over the roster core. Every
// write operation runs its decision reads and its mutation inside one
// transaction; the identity registry, quota enforcer, credential manager,
// lifecycle machine and upgrade rule are invoked only from here.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"canvass/internal/audit"
	"canvass/internal/notify"
	"canvass/internal/platform/metrics"
	"canvass/internal/roster/credential"
	"canvass/internal/roster/identity"
	"canvass/internal/roster/lifecycle"
	"canvass/internal/roster/models"
	"canvass/internal/roster/quota"
	"canvass/internal/roster/store"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AuditPublisher,CampaignGate

// AuditPublisher captures structured audit events. Fire-and-forget from the
// service's perspective; an emission failure is logged, never propagated.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CampaignGate answers whether a campaign currently accepts registrations.
type CampaignGate interface {
	IsActive(ctx context.Context, id domain.CampaignID) (bool, error)
}

// Service exposes the role-hierarchy operations.
type Service struct {
	tx          store.Tx
	store       store.Store
	registry    *identity.Registry
	quota       *quota.Enforcer
	credentials *credential.Manager
	lifecycle   *lifecycle.Machine

	campaigns CampaignGate
	logger    *slog.Logger
	audit     AuditPublisher
	notifier  notify.Dispatcher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher sets the audit event sink.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// WithNotifier sets the notification dispatcher.
func WithNotifier(n notify.Dispatcher) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCampaignGate restricts registrations to active campaigns.
func WithCampaignGate(g CampaignGate) Option {
	return func(s *Service) {
		s.campaigns = g
	}
}

// New creates the façade over a store and its transaction runner. The
// registry, enforcer and lifecycle machine are built here so callers cannot
// wire them against a different store than the one the transactions cover.
func New(tx store.Tx, st store.Store, credentials *credential.Manager, opts ...Option) *Service {
	s := &Service{
		tx:          tx,
		store:       st,
		registry:    identity.New(st),
		quota:       quota.New(st),
		credentials: credentials,
		logger:      slog.Default(),
		tracer:      otel.Tracer("canvass/roster"),
	}
	s.lifecycle = lifecycle.New(st, s.quota, credentials)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPerson loads one role record with its account.
func (s *Service) GetPerson(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "roster.GetPerson")
	defer span.End()

	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "role record not found", "failed to load role record")
	}
	return rec, nil
}

// ListByCoordinator returns the alive volunteers reporting to a coordinator.
func (s *Service) ListByCoordinator(ctx context.Context, coordinatorID domain.PersonID) ([]*models.RoleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "roster.ListByCoordinator")
	defer span.End()

	recs, err := s.store.ListAliveByCoordinator(ctx, coordinatorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list volunteers")
	}
	return recs, nil
}

// ListByVillage returns the alive records assigned to a village within a
// campaign.
func (s *Service) ListByVillage(ctx context.Context, campaignID domain.CampaignID, village string) ([]*models.RoleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "roster.ListByVillage")
	defer span.End()

	recs, err := s.store.ListAliveByVillage(ctx, campaignID, village)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list village records")
	}
	return recs, nil
}

// ListCredentials returns an account's full credential history, newest last.
func (s *Service) ListCredentials(ctx context.Context, accountID domain.AccountID) ([]*models.Credential, error) {
	creds, err := s.store.ListCredentials(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	return creds, nil
}

// requireActiveCampaign gates registrations on campaign state. A nil gate
// (unit suites, seed scripts) allows everything.
func (s *Service) requireActiveCampaign(ctx context.Context, id domain.CampaignID) error {
	if s.campaigns == nil {
		return nil
	}
	active, err := s.campaigns.IsActive(ctx, id)
	if err != nil {
		return err
	}
	if !active {
		return dErrors.New(dErrors.CodeConflict, "campaign is not accepting registrations")
	}
	return nil
}

// checkIdentityFree fails when the national ID is held by an alive record
// anywhere, or when a soft-deleted record holds it and the caller should be
// directed to restore instead of register.
func (s *Service) checkIdentityFree(ctx context.Context, nationalID domain.NationalID) error {
	if _, err := s.registry.FindActiveByNationalID(ctx, nationalID); err == nil {
		return dErrors.New(dErrors.CodeDuplicateIdentity, "national id is already registered to an active record")
	} else if !isNotFound(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check identity")
	}
	if _, err := s.registry.FindMostRecentDeleted(ctx, nationalID); err == nil {
		return dErrors.New(dErrors.CodeIdentitySoftDeleted, "a deleted record holds this national id; restore it instead of registering")
	} else if !isNotFound(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check deleted identities")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.ActorID = requestcontext.ActorID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action, "error", err)
	}
}

func (s *Service) dispatch(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to dispatch notification",
			"kind", string(n.Kind), "error", err)
	}
}

// countQuotaRejection records metric and audit trail for a quota rejection.
// Called after the transaction rolled back, so the audit write goes straight
// to the store.
func (s *Service) countQuotaRejection(ctx context.Context, scope string, nationalID domain.NationalID) {
	if s.metrics != nil {
		s.metrics.QuotaRejections.WithLabelValues(scope).Inc()
	}
	s.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventQuotaRejected),
		TargetKind: "person",
		TargetName: maskNationalID(nationalID),
		Meta:       map[string]string{"scope": scope},
	})
}

// maskNationalID keeps the last four digits for operator correlation.
func maskNationalID(id domain.NationalID) string {
	s := id.String()
	if len(s) <= 4 {
		return s
	}
	return "************" + s[len(s)-4:]
}
