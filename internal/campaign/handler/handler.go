// Package handler is the HTTP surface for campaign administration.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"canvass/internal/campaign/models"
	"canvass/internal/transport/http/shared"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

// Service is the campaign operation surface the handler needs.
type Service interface {
	Create(ctx context.Context, name, region string) (*models.Campaign, error)
	Get(ctx context.Context, id domain.CampaignID) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	Deactivate(ctx context.Context, id domain.CampaignID) (*models.Campaign, error)
	Reactivate(ctx context.Context, id domain.CampaignID) (*models.Campaign, error)
}

// Handler serves the campaign endpoints.
type Handler struct {
	campaigns Service
	logger    *slog.Logger
}

func New(campaigns Service, logger *slog.Logger) *Handler {
	return &Handler{campaigns: campaigns, logger: logger}
}

// Register mounts the campaign routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/deactivate", h.handleDeactivate)
		r.Post("/{id}/reactivate", h.handleReactivate)
	})
}

type createRequest struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type campaignResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Status    string  `json:"status"`
	StartsAt  string  `json:"starts_at"`
	EndsAt    *string `json:"ends_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func toCampaignResponse(c *models.Campaign) campaignResponse {
	resp := campaignResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Region:    c.Region,
		Status:    string(c.Status),
		StartsAt:  c.StartsAt.Format(time.RFC3339),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.EndsAt != nil {
		ends := c.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &ends
	}
	return resp
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	c, err := h.campaigns.Create(r.Context(), req.Name, req.Region)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toCampaignResponse(c))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignResponse(c))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"campaigns": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.withCampaign(w, r, h.campaigns.Get)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.withCampaign(w, r, h.campaigns.Deactivate)
}

func (h *Handler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	h.withCampaign(w, r, h.campaigns.Reactivate)
}

func (h *Handler) withCampaign(w http.ResponseWriter, r *http.Request, op func(context.Context, domain.CampaignID) (*models.Campaign, error)) {
	id, err := domain.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid campaign id"))
		return
	}
	c, err := op(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCampaignResponse(c))
}
