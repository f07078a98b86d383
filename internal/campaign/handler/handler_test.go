package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"canvass/internal/campaign/service"
	"canvass/internal/campaign/store"
)

func newCampaignRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(store.NewMemory())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestCampaignLifecycleViaHandlers(t *testing.T) {
	router := newCampaignRouter(t)

	body := strings.NewReader(`{"name": "Walikota 2027", "region": "Jakarta"}`)
	req := httptest.NewRequest(http.MethodPost, "/campaigns/", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating campaign, got %d", rec.Code)
	}

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode campaign: %v", err)
	}
	if created.ID == "" || created.Status != "active" {
		t.Fatalf("expected an active campaign, got %+v", created)
	}

	deactReq := httptest.NewRequest(http.MethodPost, "/campaigns/"+created.ID+"/deactivate", nil)
	deactRec := httptest.NewRecorder()
	router.ServeHTTP(deactRec, deactReq)
	if deactRec.Code != http.StatusOK {
		t.Fatalf("expected 200 deactivating, got %d", deactRec.Code)
	}
	var closed struct {
		Status string  `json:"status"`
		EndsAt *string `json:"ends_at"`
	}
	if err := json.NewDecoder(deactRec.Body).Decode(&closed); err != nil {
		t.Fatalf("failed to decode campaign: %v", err)
	}
	if closed.Status != "inactive" || closed.EndsAt == nil {
		t.Fatalf("expected a closed campaign with ends_at, got %+v", closed)
	}

	// Deactivating twice is a conflict.
	againRec := httptest.NewRecorder()
	router.ServeHTTP(againRec, httptest.NewRequest(http.MethodPost, "/campaigns/"+created.ID+"/deactivate", nil))
	if againRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeated deactivation, got %d", againRec.Code)
	}
}

func TestCampaignValidationViaHandlers(t *testing.T) {
	router := newCampaignRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/", strings.NewReader(`{"name": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a blank name, got %d", rec.Code)
	}

	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/campaigns/not-a-uuid", nil))
	if getRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", getRec.Code)
	}
}
