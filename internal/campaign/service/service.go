// Package service exposes campaign lifecycle operations.
package service

import (
	"context"
	"errors"
	"log/slog"

	"canvass/internal/audit"
	"canvass/internal/campaign/models"
	"canvass/internal/campaign/store"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
	"canvass/pkg/requestcontext"
)

// AuditPublisher captures campaign audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates campaign operations.
type Service struct {
	store  store.Store
	logger *slog.Logger
	audit  AuditPublisher
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher sets the audit sink.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new active campaign.
func (s *Service) Create(ctx context.Context, name, region string) (*models.Campaign, error) {
	now := requestcontext.Now(ctx)
	c, err := models.New(name, region, now, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "campaign name is already used")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create campaign")
	}
	s.emitAudit(ctx, audit.EventCampaignCreated, c)
	return c, nil
}

// Get loads one campaign.
func (s *Service) Get(ctx context.Context, id domain.CampaignID) (*models.Campaign, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "campaign not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load campaign")
	}
	return c, nil
}

// List returns all campaigns ordered by creation time.
func (s *Service) List(ctx context.Context) ([]*models.Campaign, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list campaigns")
	}
	return out, nil
}

// IsActive reports whether the campaign accepts new registrations.
func (s *Service) IsActive(ctx context.Context, id domain.CampaignID) (bool, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return c.IsActive(), nil
}

// Deactivate closes a campaign to new registrations. Existing role records
// are untouched.
func (s *Service) Deactivate(ctx context.Context, id domain.CampaignID) (*models.Campaign, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.CanDeactivate(); err != nil {
		return nil, err
	}
	c.ApplyDeactivate(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate campaign")
	}
	s.emitAudit(ctx, audit.EventCampaignDeactivated, c)
	return c, nil
}

// Reactivate reopens a closed campaign.
func (s *Service) Reactivate(ctx context.Context, id domain.CampaignID) (*models.Campaign, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.CanReactivate(); err != nil {
		return nil, err
	}
	c.ApplyReactivate(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reactivate campaign")
	}
	s.emitAudit(ctx, audit.EventCampaignReactivated, c)
	return c, nil
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, c *models.Campaign) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Action:     string(action),
		TargetKind: "campaign",
		TargetName: c.Name,
		ActorID:    requestcontext.ActorID(ctx),
		RequestID:  requestcontext.RequestID(ctx),
		Meta:       map[string]string{"campaign_id": c.ID.String()},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(action), "error", err)
	}
}
