// Package domain holds typed identifiers and small domain primitives shared
// across features. Keeping them here avoids import cycles between feature
// packages and makes accidental ID mix-ups a compile error.
package domain

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

type (
	// CampaignID identifies a campaign (tenant) scope.
	CampaignID uuid.UUID
	// PersonID identifies a person-role record in any of the role tables.
	PersonID uuid.UUID
	// AccountID identifies the login account paired with a person-role record.
	AccountID uuid.UUID
	// CredentialID identifies one entry in an account's credential history.
	CredentialID uuid.UUID
)

func (id CampaignID) String() string   { return uuid.UUID(id).String() }
func (id PersonID) String() string     { return uuid.UUID(id).String() }
func (id AccountID) String() string    { return uuid.UUID(id).String() }
func (id CredentialID) String() string { return uuid.UUID(id).String() }

func (id CampaignID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CredentialID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewCampaignID returns a fresh random campaign ID.
func NewCampaignID() CampaignID { return CampaignID(uuid.New()) }

// NewPersonID returns a fresh random person ID.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewAccountID returns a fresh random account ID.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// NewCredentialID returns a fresh random credential ID.
func NewCredentialID() CredentialID { return CredentialID(uuid.New()) }

// ParsePersonID parses a person ID from its string form.
func ParsePersonID(s string) (PersonID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PersonID{}, fmt.Errorf("invalid person id: %w", err)
	}
	return PersonID(u), nil
}

// ParseCampaignID parses a campaign ID from its string form.
func ParseCampaignID(s string) (CampaignID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CampaignID{}, fmt.Errorf("invalid campaign id: %w", err)
	}
	return CampaignID(u), nil
}

// ParseAccountID parses an account ID from its string form.
func ParseAccountID(s string) (AccountID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("invalid account id: %w", err)
	}
	return AccountID(u), nil
}

// ParseCredentialID parses a credential ID from its string form.
func ParseCredentialID(s string) (CredentialID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CredentialID{}, fmt.Errorf("invalid credential id: %w", err)
	}
	return CredentialID(u), nil
}

// NationalID is the natural-person identifier used as the cross-table
// uniqueness key. Validity is enforced at parse time so downstream code can
// treat a non-empty NationalID as well-formed.
type NationalID string

var nationalIDPattern = regexp.MustCompile(`^[0-9]{16}$`)

// ParseNationalID validates and returns a NationalID (16 digits).
func ParseNationalID(s string) (NationalID, error) {
	if !nationalIDPattern.MatchString(s) {
		return "", fmt.Errorf("national id must be exactly 16 digits")
	}
	return NationalID(s), nil
}

func (n NationalID) String() string { return string(n) }

// RoleKind distinguishes the three person-role tables.
type RoleKind string

const (
	RoleVisitCoordinator RoleKind = "visit_coordinator"
	RoleRollCoordinator  RoleKind = "roll_coordinator"
	RoleVolunteer        RoleKind = "volunteer"
)

// ParseRoleKind validates and returns a RoleKind.
func ParseRoleKind(s string) (RoleKind, error) {
	switch k := RoleKind(s); k {
	case RoleVisitCoordinator, RoleRollCoordinator, RoleVolunteer:
		return k, nil
	}
	return "", fmt.Errorf("unknown role kind: %s", s)
}

// IsCoordinator reports whether the kind is one of the coordinator tables.
func (k RoleKind) IsCoordinator() bool {
	return k == RoleVisitCoordinator || k == RoleRollCoordinator
}

// Track names one of the two parallel canvassing duty lines.
type Track string

const (
	TrackVisit Track = "visit"
	TrackRoll  Track = "roll"
)

// ParseTrack validates and returns a Track.
func ParseTrack(s string) (Track, error) {
	switch t := Track(s); t {
	case TrackVisit, TrackRoll:
		return t, nil
	}
	return "", fmt.Errorf("unknown track: %s", s)
}
