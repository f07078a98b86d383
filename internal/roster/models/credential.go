package models

import (
	"time"

	"canvass/pkg/domain"
)

// CredentialKind distinguishes the first credential of an account from
// rotations issued later (renames, restores).
type CredentialKind string

const (
	CredentialInitial  CredentialKind = "initial"
	CredentialReactive CredentialKind = "reactive"
)

// Credential is one append-only entry in an account's password history. The
// plaintext is never stored; EncryptedPassword is the reversibly-encrypted
// copy kept for one-time operator display, distinct from the one-way hash on
// the account.
//
// Invariant: exactly one credential per account has Active=true at any
// instant. Rotation flips the old one inactive (stamping UsedAt) and inserts
// the new one in the same transaction.
type Credential struct {
	ID                domain.CredentialID
	AccountID         domain.AccountID
	EncryptedPassword string
	Kind              CredentialKind
	Active            bool
	UsedAt            *time.Time
	CreatedAt         time.Time
}
