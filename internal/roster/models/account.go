package models

import (
	"time"

	"canvass/pkg/domain"
)

// Account is the login pair of a person-role record. It shares the record's
// lifecycle: created in the same transaction, soft-deleted by the cascade,
// restored together with a fresh credential.
type Account struct {
	ID           domain.AccountID
	DisplayName  string
	Email        string
	PasswordHash string
	RoleKind     domain.RoleKind
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAlive reports whether the account is not soft-deleted.
func (a *Account) IsAlive() bool { return a.DeletedAt == nil }
