// Package credential manages the login material paired with person-role
// records. Two distinct mechanisms, never interchangeable: a one-way bcrypt
// hash on the account for authentication, and a reversibly-encrypted copy in
// the credential history for one-time operator display.
package credential

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/chacha20poly1305"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
)

// Store is the credential slice of the roster store. All mutating calls are
// expected to run inside the caller's transaction.
type Store interface {
	EmailInUse(ctx context.Context, email string) (bool, error)
	UpdateAccountPassword(ctx context.Context, accountID domain.AccountID, passwordHash string, now time.Time) error
	InsertCredential(ctx context.Context, cred *models.Credential) error
	FindActiveCredential(ctx context.Context, accountID domain.AccountID) (*models.Credential, error)
	DeactivateCredential(ctx context.Context, credentialID domain.CredentialID, usedAt time.Time) error
}

// Manager issues and rotates credentials.
type Manager struct {
	store  Store
	aead   cipher.AEAD
	domain string
}

// Option configures a Manager.
type Option func(*Manager)

// WithEmailDomain overrides the generated-address domain.
func WithEmailDomain(d string) Option {
	return func(m *Manager) { m.domain = d }
}

// New builds a Manager. key is the 32-byte symmetric key for the reversible
// credential copy.
func New(store Store, key []byte, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("credential key: %w", err)
	}
	m := &Manager{store: store, aead: aead, domain: "canvass.local"}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// HashPassword creates the one-way bcrypt hash stored on the account.
func (m *Manager) HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext against the account hash.
func (m *Manager) VerifyPassword(plain, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid password")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}

// IssueInitial writes the first credential row of an account (kind=initial,
// active). The account hash is set by the caller on the account row in the
// same transaction.
func (m *Manager) IssueInitial(ctx context.Context, accountID domain.AccountID, plain string, now time.Time) (domain.CredentialID, error) {
	encrypted, err := m.encrypt(plain)
	if err != nil {
		return domain.CredentialID{}, err
	}
	cred := &models.Credential{
		ID:                domain.NewCredentialID(),
		AccountID:         accountID,
		EncryptedPassword: encrypted,
		Kind:              models.CredentialInitial,
		Active:            true,
		CreatedAt:         now,
	}
	if err := m.store.InsertCredential(ctx, cred); err != nil {
		return domain.CredentialID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write initial credential")
	}
	return cred.ID, nil
}

// Rotate supersedes the active credential of an account: the old one is
// flipped inactive and stamped used_at, a fresh password is generated,
// encrypted and written as the new active credential, and the account hash is
// replaced. Returns the new plaintext exactly once for operator display,
// along with the persisted hash so callers can keep their loaded aggregate in
// sync with the account row.
//
// Must run inside the caller's transaction so either every step applies or
// none does.
func (m *Manager) Rotate(ctx context.Context, accountID domain.AccountID, now time.Time) (plain, hash string, err error) {
	current, err := m.store.FindActiveCredential(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", "", dErrors.New(dErrors.CodeInvariantViolation, "account has no active credential")
		}
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active credential")
	}

	plain, err = GeneratePassword()
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate password")
	}
	hash, err = m.HashPassword(plain)
	if err != nil {
		return "", "", err
	}
	encrypted, err := m.encrypt(plain)
	if err != nil {
		return "", "", err
	}

	if err := m.store.DeactivateCredential(ctx, current.ID, now); err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to supersede credential")
	}
	next := &models.Credential{
		ID:                domain.NewCredentialID(),
		AccountID:         accountID,
		EncryptedPassword: encrypted,
		Kind:              models.CredentialReactive,
		Active:            true,
		CreatedAt:         now,
	}
	if err := m.store.InsertCredential(ctx, next); err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write rotated credential")
	}
	if err := m.store.UpdateAccountPassword(ctx, accountID, hash, now); err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account password")
	}
	return plain, hash, nil
}

// Reveal decrypts the operator-display copy of a credential.
func (m *Manager) Reveal(cred *models.Credential) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cred.EncryptedPassword)
	if err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}
	if len(raw) < m.aead.NonceSize() {
		return "", fmt.Errorf("credential ciphertext too short")
	}
	nonce, ct := raw[:m.aead.NonceSize()], raw[m.aead.NonceSize():]
	plain, err := m.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt credential: %w", err)
	}
	return string(plain), nil
}

func (m *Manager) encrypt(plain string) (string, error) {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ct := m.aead.Seal(nil, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(append(nonce, ct...)), nil
}

const passwordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword creates a cryptographically random 12-character password
// from an unambiguous charset.
func GeneratePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate password: %w", err)
	}
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = passwordCharset[int(b)%len(passwordCharset)]
	}
	return string(out), nil
}
