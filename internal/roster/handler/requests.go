package handler

import (
	"strings"

	"canvass/internal/roster/models"
	"canvass/internal/roster/service"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

const maxNameLength = 120

// regionPayload is the shared region fragment of registration bodies.
type regionPayload struct {
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
	Village  string `json:"village"`
}

func (p regionPayload) toRegion() models.Region {
	return models.Region{
		Province: p.Province,
		City:     p.City,
		District: p.District,
		Village:  p.Village,
	}
}

// RegisterCoordinatorRequest is the body of POST /roster/coordinators.
type RegisterCoordinatorRequest struct {
	Kind       string        `json:"kind"`
	NationalID string        `json:"national_id"`
	Name       string        `json:"name"`
	Phone      string        `json:"phone"`
	Address    string        `json:"address"`
	CampaignID string        `json:"campaign_id"`
	Region     regionPayload `json:"region"`
}

// Normalize trims whitespace from free-text fields.
func (r *RegisterCoordinatorRequest) Normalize() {
	r.Kind = strings.TrimSpace(r.Kind)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// Parse validates the request and converts it to domain inputs.
func (r *RegisterCoordinatorRequest) Parse() (domain.RoleKind, models.Identity, models.Scope, error) {
	kind, err := domain.ParseRoleKind(r.Kind)
	if err != nil {
		return "", models.Identity{}, models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid role kind")
	}
	ident, err := parseIdentity(r.NationalID, r.Name, r.Phone, r.Address)
	if err != nil {
		return "", models.Identity{}, models.Scope{}, err
	}
	campaignID, err := domain.ParseCampaignID(r.CampaignID)
	if err != nil {
		return "", models.Identity{}, models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid campaign id")
	}
	return kind, ident, models.Scope{CampaignID: campaignID, Region: r.Region.toRegion()}, nil
}

// RegisterVolunteerRequest is the body of POST /roster/volunteers.
type RegisterVolunteerRequest struct {
	ActorID            string        `json:"actor_id"`
	NationalID         string        `json:"national_id"`
	Name               string        `json:"name"`
	Phone              string        `json:"phone"`
	Address            string        `json:"address"`
	CampaignID         string        `json:"campaign_id"`
	Region             regionPayload `json:"region"`
	VisitTrack         bool          `json:"visit_track"`
	RollTrack          bool          `json:"roll_track"`
	VisitCoordinatorID string        `json:"visit_coordinator_id,omitempty"`
	RollCoordinatorID  string        `json:"roll_coordinator_id,omitempty"`
}

func (r *RegisterVolunteerRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// Parse validates the request and converts it to domain inputs.
func (r *RegisterVolunteerRequest) Parse() (domain.PersonID, models.Identity, models.TrackFlags, models.Scope, error) {
	fail := func(err error) (domain.PersonID, models.Identity, models.TrackFlags, models.Scope, error) {
		return domain.PersonID{}, models.Identity{}, models.TrackFlags{}, models.Scope{}, err
	}

	actorID, err := domain.ParsePersonID(r.ActorID)
	if err != nil {
		return fail(dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid actor id"))
	}
	ident, err := parseIdentity(r.NationalID, r.Name, r.Phone, r.Address)
	if err != nil {
		return fail(err)
	}
	campaignID, err := domain.ParseCampaignID(r.CampaignID)
	if err != nil {
		return fail(dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid campaign id"))
	}

	scope := models.Scope{CampaignID: campaignID, Region: r.Region.toRegion()}
	if r.VisitCoordinatorID != "" {
		id, err := domain.ParsePersonID(r.VisitCoordinatorID)
		if err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid visit coordinator id"))
		}
		scope.VisitCoordinatorID = &id
	}
	if r.RollCoordinatorID != "" {
		id, err := domain.ParsePersonID(r.RollCoordinatorID)
		if err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid roll coordinator id"))
		}
		scope.RollCoordinatorID = &id
	}
	return actorID, ident, models.TrackFlags{Visit: r.VisitTrack, Roll: r.RollTrack}, scope, nil
}

// UpdatePersonRequest is the body of PATCH /roster/persons/{id}. Absent
// fields stay unchanged.
type UpdatePersonRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (r *UpdatePersonRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.Name)
	trim(r.Phone)
	trim(r.Address)
	trim(r.NationalID)
}

// Parse validates the request and converts it to service fields.
func (r *UpdatePersonRequest) Parse() (fields service.UpdateFields, err error) {
	if r.Name != nil {
		if *r.Name == "" || len(*r.Name) > maxNameLength {
			return fields, dErrors.New(dErrors.CodeBadRequest, "invalid display name")
		}
		fields.Name = r.Name
	}
	fields.Phone = r.Phone
	fields.Address = r.Address
	if r.NationalID != nil {
		id, err := domain.ParseNationalID(*r.NationalID)
		if err != nil {
			return fields, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid national id")
		}
		fields.NationalID = &id
	}
	if r.Status != nil {
		switch st := models.Status(*r.Status); st {
		case models.StatusActive, models.StatusInactive:
			fields.Status = &st
		default:
			return fields, dErrors.New(dErrors.CodeBadRequest, "invalid status")
		}
	}
	return fields, nil
}

// RestoreRequest is the body of POST /roster/restore.
type RestoreRequest struct {
	NationalID         string        `json:"national_id"`
	CampaignID         string        `json:"campaign_id"`
	Region             regionPayload `json:"region"`
	VisitCoordinatorID string        `json:"visit_coordinator_id,omitempty"`
	RollCoordinatorID  string        `json:"roll_coordinator_id,omitempty"`
}

func (r *RestoreRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
}

// Parse validates the request and converts it to domain inputs.
func (r *RestoreRequest) Parse() (domain.NationalID, models.Scope, error) {
	nationalID, err := domain.ParseNationalID(r.NationalID)
	if err != nil {
		return "", models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid national id")
	}
	campaignID, err := domain.ParseCampaignID(r.CampaignID)
	if err != nil {
		return "", models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid campaign id")
	}
	scope := models.Scope{CampaignID: campaignID, Region: r.Region.toRegion()}
	if r.VisitCoordinatorID != "" {
		id, err := domain.ParsePersonID(r.VisitCoordinatorID)
		if err != nil {
			return "", models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid visit coordinator id")
		}
		scope.VisitCoordinatorID = &id
	}
	if r.RollCoordinatorID != "" {
		id, err := domain.ParsePersonID(r.RollCoordinatorID)
		if err != nil {
			return "", models.Scope{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid roll coordinator id")
		}
		scope.RollCoordinatorID = &id
	}
	return nationalID, scope, nil
}

// UpgradeRequest is the body of POST /roster/upgrades.
type UpgradeRequest struct {
	VolunteerID       string `json:"volunteer_id"`
	RollCoordinatorID string `json:"roll_coordinator_id"`
}

// Parse validates the request and converts it to domain inputs.
func (r *UpgradeRequest) Parse() (domain.PersonID, domain.PersonID, error) {
	volunteerID, err := domain.ParsePersonID(r.VolunteerID)
	if err != nil {
		return domain.PersonID{}, domain.PersonID{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid volunteer id")
	}
	coordID, err := domain.ParsePersonID(r.RollCoordinatorID)
	if err != nil {
		return domain.PersonID{}, domain.PersonID{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid roll coordinator id")
	}
	return volunteerID, coordID, nil
}

func parseIdentity(nationalID, name, phone, address string) (models.Identity, error) {
	id, err := domain.ParseNationalID(nationalID)
	if err != nil {
		return models.Identity{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid national id")
	}
	if name == "" || len(name) > maxNameLength {
		return models.Identity{}, dErrors.New(dErrors.CodeBadRequest, "invalid display name")
	}
	return models.Identity{NationalID: id, Name: name, Phone: phone, Address: address}, nil
}
