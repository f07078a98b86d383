package models

import (
	"time"

	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// Status is the operational flag on a person-role record. It is independent
// of soft deletion: an inactive record is still alive and still claims its
// national ID.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// LifecycleState is the explicit tagged state derived from Status and
// DeletedAt. All alive/deleted branching goes through Lifecycle() so no call
// site reimplements the "delete timestamp is null" convention.
type LifecycleState string

const (
	LifecycleActive   LifecycleState = "active"
	LifecycleInactive LifecycleState = "inactive"
	LifecycleDeleted  LifecycleState = "deleted"
)

// Region holds the administrative area codes a record is assigned to.
type Region struct {
	Province string
	City     string
	District string
	Village  string
}

// Scope is the placement of a record: its campaign, region and, for
// volunteers, the coordinators it reports to. Restores rewrite the whole
// scope at once ("reparenting").
type Scope struct {
	CampaignID         domain.CampaignID
	Region             Region
	VisitCoordinatorID *domain.PersonID
	RollCoordinatorID  *domain.PersonID
}

// TrackFlags are the volunteer duty-line flags. Invariant: at least one flag
// is set on any alive volunteer.
type TrackFlags struct {
	Visit bool
	Roll  bool
}

// Identity carries the person attributes shared by all role kinds.
type Identity struct {
	NationalID domain.NationalID
	Name       string
	Phone      string
	Address    string
}

// RoleRecord is the aggregate root for one person-role entry. The paired
// Account is an owned projection: it is created, soft-deleted and restored
// with the record, never independently.
//
// Invariants:
//   - NationalID is well-formed (enforced at parse time) and unique among
//     alive records across all three role kinds (enforced by the store's
//     identity claim).
//   - A volunteer always has at least one track flag set, and a set flag
//     implies the matching coordinator pointer is set.
//   - Coordinators carry no track flags and no coordinator pointers.
type RoleRecord struct {
	ID         domain.PersonID
	Kind       domain.RoleKind
	NationalID domain.NationalID
	Name       string
	Phone      string
	Address    string

	CampaignID         domain.CampaignID
	Region             Region
	VisitCoordinatorID *domain.PersonID
	RollCoordinatorID  *domain.PersonID
	Tracks             TrackFlags

	Status    Status
	DeletedAt *time.Time

	Account Account

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lifecycle returns the explicit state of the record.
func (r *RoleRecord) Lifecycle() LifecycleState {
	if r.DeletedAt != nil {
		return LifecycleDeleted
	}
	if r.Status == StatusInactive {
		return LifecycleInactive
	}
	return LifecycleActive
}

// IsAlive reports whether the record is not soft-deleted.
func (r *RoleRecord) IsAlive() bool { return r.DeletedAt == nil }

// CurrentScope returns the record's current placement.
func (r *RoleRecord) CurrentScope() Scope {
	return Scope{
		CampaignID:         r.CampaignID,
		Region:             r.Region,
		VisitCoordinatorID: r.VisitCoordinatorID,
		RollCoordinatorID:  r.RollCoordinatorID,
	}
}

// CanSoftDelete checks the record may leave the alive states. The dependent
// guard for coordinators lives in the lifecycle machine because it needs a
// store count.
func (r *RoleRecord) CanSoftDelete() error {
	if r.DeletedAt != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is already deleted")
	}
	return nil
}

// ApplySoftDelete marks the record and its account deleted. Call
// CanSoftDelete first.
func (r *RoleRecord) ApplySoftDelete(now time.Time) {
	at := now
	r.DeletedAt = &at
	r.UpdatedAt = now
	r.Account.DeletedAt = &at
}

// CanRestore checks the record is in the deleted state.
func (r *RoleRecord) CanRestore() error {
	if r.DeletedAt == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is not deleted")
	}
	return nil
}

// ApplyRestore clears the delete timestamp, rewrites the scope fields and
// re-enters the record as inactive; activation is driven by the external
// presence collaborator. The account comes back with the record.
func (r *RoleRecord) ApplyRestore(scope Scope, now time.Time) {
	r.DeletedAt = nil
	r.Status = StatusInactive
	r.CampaignID = scope.CampaignID
	r.Region = scope.Region
	r.VisitCoordinatorID = scope.VisitCoordinatorID
	r.RollCoordinatorID = scope.RollCoordinatorID
	r.UpdatedAt = now
	r.Account.DeletedAt = nil
}

// NewCoordinator builds a coordinator record for one of the two tracks.
func NewCoordinator(kind domain.RoleKind, identity Identity, scope Scope, account Account, now time.Time) (*RoleRecord, error) {
	if !kind.IsCoordinator() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "%s is not a coordinator kind", kind)
	}
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	if scope.CampaignID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "coordinator requires a campaign")
	}
	if scope.Region.Village == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "coordinator requires a village assignment")
	}
	return &RoleRecord{
		ID:         domain.NewPersonID(),
		Kind:       kind,
		NationalID: identity.NationalID,
		Name:       identity.Name,
		Phone:      identity.Phone,
		Address:    identity.Address,
		CampaignID: scope.CampaignID,
		Region:     scope.Region,
		Status:     StatusInactive,
		Account:    account,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewVolunteer builds a volunteer record under the given coordinators.
func NewVolunteer(identity Identity, tracks TrackFlags, scope Scope, account Account, now time.Time) (*RoleRecord, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	if !tracks.Visit && !tracks.Roll {
		return nil, dErrors.New(dErrors.CodeInvalidRoleTransition, "volunteer must serve at least one track")
	}
	if scope.CampaignID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "volunteer requires a campaign")
	}
	if tracks.Visit && scope.VisitCoordinatorID == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit-track volunteer requires a visit coordinator")
	}
	if tracks.Roll && scope.RollCoordinatorID == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "roll-track volunteer requires a roll coordinator")
	}
	return &RoleRecord{
		ID:                 domain.NewPersonID(),
		Kind:               domain.RoleVolunteer,
		NationalID:         identity.NationalID,
		Name:               identity.Name,
		Phone:              identity.Phone,
		Address:            identity.Address,
		CampaignID:         scope.CampaignID,
		Region:             scope.Region,
		VisitCoordinatorID: scope.VisitCoordinatorID,
		RollCoordinatorID:  scope.RollCoordinatorID,
		Tracks:             tracks,
		Status:             StatusInactive,
		Account:            account,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func validateIdentity(identity Identity) error {
	if identity.NationalID == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "national id is required")
	}
	if identity.Name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "display name is required")
	}
	return nil
}
