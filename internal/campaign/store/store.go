// Package store persists campaigns.
package store

import (
	"context"

	"canvass/internal/campaign/models"
	"canvass/pkg/domain"
)

// Store is the campaign persistence port.
type Store interface {
	Insert(ctx context.Context, c *models.Campaign) error
	Update(ctx context.Context, c *models.Campaign) error
	FindByID(ctx context.Context, id domain.CampaignID) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
}
