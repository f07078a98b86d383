package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"canvass/internal/campaign/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
)

// Memory is the in-memory campaign store for unit suites.
type Memory struct {
	mu        sync.RWMutex
	campaigns map[domain.CampaignID]*models.Campaign
}

func NewMemory() *Memory {
	return &Memory{campaigns: make(map[domain.CampaignID]*models.Campaign)}
}

func clone(c *models.Campaign) *models.Campaign {
	out := *c
	if c.EndsAt != nil {
		ends := *c.EndsAt
		out.EndsAt = &ends
	}
	return &out
}

func (m *Memory) Insert(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[c.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range m.campaigns {
		if strings.EqualFold(existing.Name, c.Name) {
			return sentinel.ErrAlreadyUsed
		}
	}
	m.campaigns[c.ID] = clone(c)
	return nil
}

func (m *Memory) Update(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.campaigns[c.ID] = clone(c)
	return nil
}

func (m *Memory) FindByID(ctx context.Context, id domain.CampaignID) (*models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

func (m *Memory) List(ctx context.Context) ([]*models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
