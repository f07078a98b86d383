// Package handler is the HTTP surface of the roster core. It delegates to
// the service façade and keeps transport concerns (decoding, status codes,
// response shapes) out of the domain.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"canvass/internal/roster/models"
	"canvass/internal/roster/service"
	"canvass/internal/transport/http/shared"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// Service is the roster operation surface the handler needs.
type Service interface {
	RegisterCoordinator(ctx context.Context, kind domain.RoleKind, ident models.Identity, scope models.Scope) (*models.RoleRecord, string, error)
	RegisterVolunteer(ctx context.Context, actorID domain.PersonID, ident models.Identity, tracks models.TrackFlags, scope models.Scope) (*models.RoleRecord, string, error)
	UpdatePerson(ctx context.Context, id domain.PersonID, fields service.UpdateFields) (*models.RoleRecord, string, error)
	RemoveRole(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error)
	RestoreByIdentity(ctx context.Context, nationalID domain.NationalID, newScope models.Scope) (*models.RoleRecord, string, error)
	UpgradeDoubleJob(ctx context.Context, volunteerID, rollCoordinatorID domain.PersonID) (*models.RoleRecord, error)
	GetPerson(ctx context.Context, id domain.PersonID) (*models.RoleRecord, error)
	ListByCoordinator(ctx context.Context, coordinatorID domain.PersonID) ([]*models.RoleRecord, error)
	ListByVillage(ctx context.Context, campaignID domain.CampaignID, village string) ([]*models.RoleRecord, error)
}

// Handler serves the roster endpoints.
type Handler struct {
	roster Service
	logger *slog.Logger
}

func New(roster Service, logger *slog.Logger) *Handler {
	return &Handler{roster: roster, logger: logger}
}

// Register mounts the roster routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/roster", func(r chi.Router) {
		r.Post("/coordinators", h.handleRegisterCoordinator)
		r.Post("/volunteers", h.handleRegisterVolunteer)
		r.Post("/restore", h.handleRestore)
		r.Post("/upgrades", h.handleUpgrade)

		r.Get("/persons/{id}", h.handleGetPerson)
		r.Patch("/persons/{id}", h.handleUpdatePerson)
		r.Delete("/persons/{id}", h.handleRemoveRole)

		r.Get("/coordinators/{id}/volunteers", h.handleListByCoordinator)
		r.Get("/villages/{village}/persons", h.handleListByVillage)
	})
}

// personResponse is the wire shape of a role record. The plaintext password
// appears only in registration/rotation responses, never on reads.
type personResponse struct {
	ID                 string  `json:"id"`
	Kind               string  `json:"kind"`
	NationalID         string  `json:"national_id"`
	Name               string  `json:"name"`
	Phone              string  `json:"phone,omitempty"`
	Address            string  `json:"address,omitempty"`
	CampaignID         string  `json:"campaign_id"`
	Province           string  `json:"province,omitempty"`
	City               string  `json:"city,omitempty"`
	District           string  `json:"district,omitempty"`
	Village            string  `json:"village,omitempty"`
	VisitTrack         bool    `json:"visit_track,omitempty"`
	RollTrack          bool    `json:"roll_track,omitempty"`
	VisitCoordinatorID string  `json:"visit_coordinator_id,omitempty"`
	RollCoordinatorID  string  `json:"roll_coordinator_id,omitempty"`
	Status             string  `json:"status"`
	Lifecycle          string  `json:"lifecycle"`
	Email              string  `json:"email"`
	DeletedAt          *string `json:"deleted_at,omitempty"`

	Password string `json:"password,omitempty"`
}

func toPersonResponse(rec *models.RoleRecord, password string) personResponse {
	resp := personResponse{
		ID:         rec.ID.String(),
		Kind:       string(rec.Kind),
		NationalID: rec.NationalID.String(),
		Name:       rec.Name,
		Phone:      rec.Phone,
		Address:    rec.Address,
		CampaignID: rec.CampaignID.String(),
		Province:   rec.Region.Province,
		City:       rec.Region.City,
		District:   rec.Region.District,
		Village:    rec.Region.Village,
		VisitTrack: rec.Tracks.Visit,
		RollTrack:  rec.Tracks.Roll,
		Status:     string(rec.Status),
		Lifecycle:  string(rec.Lifecycle()),
		Email:      rec.Account.Email,
		Password:   password,
	}
	if rec.VisitCoordinatorID != nil {
		resp.VisitCoordinatorID = rec.VisitCoordinatorID.String()
	}
	if rec.RollCoordinatorID != nil {
		resp.RollCoordinatorID = rec.RollCoordinatorID.String()
	}
	if rec.DeletedAt != nil {
		at := rec.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &at
	}
	return resp
}

func (h *Handler) handleRegisterCoordinator(w http.ResponseWriter, r *http.Request) {
	var req RegisterCoordinatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	kind, ident, scope, err := req.Parse()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rec, plain, err := h.roster.RegisterCoordinator(r.Context(), kind, ident, scope)
	if err != nil {
		h.logFailure(r, "register coordinator failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toPersonResponse(rec, plain))
}

func (h *Handler) handleRegisterVolunteer(w http.ResponseWriter, r *http.Request) {
	var req RegisterVolunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	actorID, ident, tracks, scope, err := req.Parse()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rec, plain, err := h.roster.RegisterVolunteer(r.Context(), actorID, ident, tracks, scope)
	if err != nil {
		h.logFailure(r, "register volunteer failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toPersonResponse(rec, plain))
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}
	rec, err := h.roster.GetPerson(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPersonResponse(rec, ""))
}

func (h *Handler) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}
	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	fields, err := req.Parse()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rec, plain, err := h.roster.UpdatePerson(r.Context(), id, fields)
	if err != nil {
		h.logFailure(r, "update person failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPersonResponse(rec, plain))
}

func (h *Handler) handleRemoveRole(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}
	if _, err := h.roster.RemoveRole(r.Context(), id); err != nil {
		h.logFailure(r, "remove role failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	nationalID, scope, err := req.Parse()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rec, plain, err := h.roster.RestoreByIdentity(r.Context(), nationalID, scope)
	if err != nil {
		h.logFailure(r, "restore failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPersonResponse(rec, plain))
}

func (h *Handler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	volunteerID, coordID, err := req.Parse()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rec, err := h.roster.UpgradeDoubleJob(r.Context(), volunteerID, coordID)
	if err != nil {
		h.logFailure(r, "upgrade failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPersonResponse(rec, ""))
}

func (h *Handler) handleListByCoordinator(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid coordinator id"))
		return
	}
	recs, err := h.roster.ListByCoordinator(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.writeList(w, recs)
}

func (h *Handler) handleListByVillage(w http.ResponseWriter, r *http.Request) {
	campaignID, err := domain.ParseCampaignID(r.URL.Query().Get("campaign_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid campaign id"))
		return
	}
	recs, err := h.roster.ListByVillage(r.Context(), campaignID, chi.URLParam(r, "village"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.writeList(w, recs)
}

func (h *Handler) writeList(w http.ResponseWriter, recs []*models.RoleRecord) {
	out := make([]personResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toPersonResponse(rec, ""))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"persons": out})
}

func (h *Handler) logFailure(r *http.Request, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
		return
	}
	h.logger.WarnContext(r.Context(), msg, "error", err)
}
