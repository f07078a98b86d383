package credential

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"canvass/internal/roster/models"
	"canvass/internal/roster/store"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

type ManagerSuite struct {
	suite.Suite

	store   *store.Memory
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.store = store.NewMemory()
	var err error
	s.manager, err = New(s.store, make([]byte, 32))
	s.Require().NoError(err)
}

func (s *ManagerSuite) TestNewRejectsBadKey() {
	_, err := New(s.store, []byte("short"))
	s.Require().Error(err)
}

func (s *ManagerSuite) TestHashAndVerify() {
	hash, err := s.manager.HashPassword("s3cret-pass")
	s.Require().NoError(err)
	s.NotEqual("s3cret-pass", hash)

	s.NoError(s.manager.VerifyPassword("s3cret-pass", hash))

	err = s.manager.VerifyPassword("wrong", hash)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = s.manager.HashPassword("")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ManagerSuite) TestIssueInitialAndReveal() {
	ctx := context.Background()
	accountID := domain.NewAccountID()
	now := time.Now().UTC()

	credID, err := s.manager.IssueInitial(ctx, accountID, "first-password", now)
	s.Require().NoError(err)
	s.False(credID.IsNil())

	active, err := s.store.FindActiveCredential(ctx, accountID)
	s.Require().NoError(err)
	s.Equal(models.CredentialInitial, active.Kind)
	s.NotEqual("first-password", active.EncryptedPassword)

	plain, err := s.manager.Reveal(active)
	s.Require().NoError(err)
	s.Equal("first-password", plain)
}

// seedAccountHolder inserts a coordinator record owning the account, so the
// store can resolve UpdateAccountPassword during rotation.
func (s *ManagerSuite) seedAccountHolder(accountID domain.AccountID) domain.PersonID {
	nationalID, err := domain.ParseNationalID("3171010101010001")
	s.Require().NoError(err)
	now := time.Now().UTC()

	account := models.Account{
		ID:        accountID,
		Email:     "holder@canvass.local",
		RoleKind:  domain.RoleVisitCoordinator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	scope := models.Scope{CampaignID: domain.NewCampaignID(), Region: models.Region{Village: "3171011001"}}
	rec, err := models.NewCoordinator(domain.RoleVisitCoordinator,
		models.Identity{NationalID: nationalID, Name: "Budi Santoso"}, scope, account, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Insert(context.Background(), rec))
	return rec.ID
}

func (s *ManagerSuite) TestRotate() {
	ctx := context.Background()
	accountID := domain.NewAccountID()
	now := time.Now().UTC()
	recID := s.seedAccountHolder(accountID)

	s.Run("rotating without an active credential is an invariant violation", func() {
		_, _, err := s.manager.Rotate(ctx, accountID, now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("rotation supersedes the active credential", func() {
		first, err := s.manager.IssueInitial(ctx, accountID, "first-password", now)
		s.Require().NoError(err)

		later := now.Add(time.Hour)
		plain, hash, err := s.manager.Rotate(ctx, accountID, later)
		s.Require().NoError(err)
		s.NotEmpty(plain)
		s.NotEqual("first-password", plain)
		s.NoError(s.manager.VerifyPassword(plain, hash))

		// The account row carries the new hash.
		holder, err := s.store.FindByID(ctx, recID)
		s.Require().NoError(err)
		s.Equal(hash, holder.Account.PasswordHash)

		creds, err := s.store.ListCredentials(ctx, accountID)
		s.Require().NoError(err)
		s.Require().Len(creds, 2)

		for _, c := range creds {
			if c.ID == first {
				s.False(c.Active)
				s.Require().NotNil(c.UsedAt)
				s.True(c.UsedAt.Equal(later))
			} else {
				s.True(c.Active)
				s.Equal(models.CredentialReactive, c.Kind)
				revealed, err := s.manager.Reveal(c)
				s.Require().NoError(err)
				s.Equal(plain, revealed)
			}
		}
	})
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		p, err := GeneratePassword()
		if err != nil {
			t.Fatalf("generate password: %v", err)
		}
		if len(p) != 12 {
			t.Fatalf("expected 12 characters, got %d", len(p))
		}
		if seen[p] {
			t.Fatalf("duplicate password generated: %s", p)
		}
		seen[p] = true
	}
}
