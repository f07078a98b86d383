// Package models defines the campaign aggregate. A campaign is the top-level
// scope for all role records; registrations are only accepted into an active
// campaign.
package models

import (
	"time"

	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// Status is the campaign lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Campaign is the scope root for a canvassing effort.
type Campaign struct {
	ID        domain.CampaignID
	Name      string
	Region    string
	Status    Status
	StartsAt  time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New constructs an active campaign.
func New(name, region string, startsAt, now time.Time) (*Campaign, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "campaign name is required")
	}
	return &Campaign{
		ID:        domain.NewCampaignID(),
		Name:      name,
		Region:    region,
		Status:    StatusActive,
		StartsAt:  startsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether registrations are accepted.
func (c *Campaign) IsActive() bool {
	return c.Status == StatusActive
}

// CanDeactivate validates the transition to inactive.
func (c *Campaign) CanDeactivate() error {
	if c.Status == StatusInactive {
		return dErrors.New(dErrors.CodeConflict, "campaign is already inactive")
	}
	return nil
}

// ApplyDeactivate closes the campaign to new registrations.
func (c *Campaign) ApplyDeactivate(now time.Time) {
	c.Status = StatusInactive
	c.EndsAt = &now
	c.UpdatedAt = now
}

// CanReactivate validates the transition back to active.
func (c *Campaign) CanReactivate() error {
	if c.Status == StatusActive {
		return dErrors.New(dErrors.CodeConflict, "campaign is already active")
	}
	return nil
}

// ApplyReactivate reopens the campaign.
func (c *Campaign) ApplyReactivate(now time.Time) {
	c.Status = StatusActive
	c.EndsAt = nil
	c.UpdatedAt = now
}
