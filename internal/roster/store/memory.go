package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	"canvass/pkg/platform/sentinel"
)

// Memory is the in-memory store used by unit suites. A single mutex guards
// all maps; the paired MemoryTx serializes whole transactions, which gives
// the same observable ordering as the SQL locking reads.
type Memory struct {
	mu          sync.RWMutex
	records     map[domain.PersonID]*models.RoleRecord
	credentials map[domain.CredentialID]*models.Credential
	// claims maps an alive national ID to the record holding it.
	claims map[domain.NationalID]domain.PersonID
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records:     make(map[domain.PersonID]*models.RoleRecord),
		credentials: make(map[domain.CredentialID]*models.Credential),
		claims:      make(map[domain.NationalID]domain.PersonID),
	}
}

// MemoryTx serializes transactions with a coarse lock. Rollback is not
// simulated; service tests that need rollback behavior run against the
// PostgreSQL store in the integration suite.
type MemoryTx struct {
	mu sync.Mutex
}

// NewMemoryTx builds the in-memory transaction boundary.
func NewMemoryTx() *MemoryTx { return &MemoryTx{} }

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

func (m *Memory) Insert(ctx context.Context, rec *models.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if holder, claimed := m.claims[rec.NationalID]; claimed && holder != rec.ID {
		return sentinel.ErrAlreadyUsed
	}
	m.records[rec.ID] = cloneRecord(rec)
	m.claims[rec.NationalID] = rec.ID
	return nil
}

func (m *Memory) Update(ctx context.Context, rec *models.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[rec.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// A national-ID change moves the claim.
	if existing.NationalID != rec.NationalID {
		if holder, claimed := m.claims[rec.NationalID]; claimed && holder != rec.ID {
			return sentinel.ErrAlreadyUsed
		}
		if existing.DeletedAt == nil {
			delete(m.claims, existing.NationalID)
			m.claims[rec.NationalID] = rec.ID
		}
	}
	// Like the SQL store, Update owns person fields and the account display
	// name; credential and lifecycle fields of the account are written by
	// UpdateAccountPassword and SoftDelete/Restore.
	next := cloneRecord(rec)
	next.Account.PasswordHash = existing.Account.PasswordHash
	next.Account.DeletedAt = existing.Account.DeletedAt
	m.records[rec.ID] = next
	return nil
}

func (m *Memory) SoftDelete(ctx context.Context, rec *models.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.records[rec.ID] = cloneRecord(rec)
	if holder, claimed := m.claims[rec.NationalID]; claimed && holder == rec.ID {
		delete(m.claims, rec.NationalID)
	}
	return nil
}

func (m *Memory) Restore(ctx context.Context, rec *models.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if holder, claimed := m.claims[rec.NationalID]; claimed && holder != rec.ID {
		return sentinel.ErrAlreadyUsed
	}
	m.records[rec.ID] = cloneRecord(rec)
	m.claims[rec.NationalID] = rec.ID
	return nil
}

func (m *Memory) FindByID(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *Memory) FindAliveByKindAndNationalID(ctx context.Context, kind domain.RoleKind, nationalID domain.NationalID) (*models.RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.Kind == kind && rec.NationalID == nationalID && rec.DeletedAt == nil {
			return cloneRecord(rec), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) FindDeletedByNationalID(ctx context.Context, nationalID domain.NationalID) ([]*models.RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.RoleRecord
	for _, rec := range m.records {
		if rec.NationalID == nationalID && rec.DeletedAt != nil {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeletedAt.After(*out[j].DeletedAt)
	})
	return out, nil
}

func (m *Memory) CountAliveVisitCoordinatorsForUpdate(ctx context.Context, campaignID domain.CampaignID, village string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rec := range m.records {
		if rec.Kind == domain.RoleVisitCoordinator && rec.DeletedAt == nil &&
			rec.CampaignID == campaignID && rec.Region.Village == village {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountAliveVisitVolunteersForUpdate(ctx context.Context, coordinatorID domain.PersonID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rec := range m.records {
		if rec.Kind == domain.RoleVolunteer && rec.DeletedAt == nil && rec.Tracks.Visit &&
			rec.VisitCoordinatorID != nil && *rec.VisitCoordinatorID == coordinatorID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountAliveDependents(ctx context.Context, coordinatorID domain.PersonID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rec := range m.records {
		if rec.Kind != domain.RoleVolunteer || rec.DeletedAt != nil {
			continue
		}
		if (rec.VisitCoordinatorID != nil && *rec.VisitCoordinatorID == coordinatorID) ||
			(rec.RollCoordinatorID != nil && *rec.RollCoordinatorID == coordinatorID) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) ListAliveByCoordinator(ctx context.Context, coordinatorID domain.PersonID) ([]*models.RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.RoleRecord
	for _, rec := range m.records {
		if rec.Kind != domain.RoleVolunteer || rec.DeletedAt != nil {
			continue
		}
		if (rec.VisitCoordinatorID != nil && *rec.VisitCoordinatorID == coordinatorID) ||
			(rec.RollCoordinatorID != nil && *rec.RollCoordinatorID == coordinatorID) {
			out = append(out, cloneRecord(rec))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (m *Memory) ListAliveByVillage(ctx context.Context, campaignID domain.CampaignID, village string) ([]*models.RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.RoleRecord
	for _, rec := range m.records {
		if rec.DeletedAt == nil && rec.CampaignID == campaignID && rec.Region.Village == village {
			out = append(out, cloneRecord(rec))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (m *Memory) EmailInUse(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.Account.DeletedAt == nil && strings.EqualFold(rec.Account.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdateAccountPassword(ctx context.Context, accountID domain.AccountID, passwordHash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.Account.ID == accountID {
			rec.Account.PasswordHash = passwordHash
			rec.Account.UpdatedAt = now
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (m *Memory) InsertCredential(ctx context.Context, cred *models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *cred
	m.credentials[cred.ID] = &c
	return nil
}

func (m *Memory) FindActiveCredential(ctx context.Context, accountID domain.AccountID) (*models.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, cred := range m.credentials {
		if cred.AccountID == accountID && cred.Active {
			c := *cred
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) ListCredentials(ctx context.Context, accountID domain.AccountID) ([]*models.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Credential
	for _, cred := range m.credentials {
		if cred.AccountID == accountID {
			c := *cred
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeactivateCredential(ctx context.Context, credentialID domain.CredentialID, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, ok := m.credentials[credentialID]
	if !ok {
		return sentinel.ErrNotFound
	}
	cred.Active = false
	at := usedAt
	cred.UsedAt = &at
	return nil
}

func sortByCreation(recs []*models.RoleRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
}

func cloneRecord(rec *models.RoleRecord) *models.RoleRecord {
	c := *rec
	c.DeletedAt = clonePtr(rec.DeletedAt)
	c.VisitCoordinatorID = clonePtr(rec.VisitCoordinatorID)
	c.RollCoordinatorID = clonePtr(rec.RollCoordinatorID)
	c.Account.DeletedAt = clonePtr(rec.Account.DeletedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
