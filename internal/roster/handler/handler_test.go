package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"canvass/internal/roster/credential"
	"canvass/internal/roster/service"
	"canvass/internal/roster/store"
)

func newRosterRouter(t *testing.T) http.Handler {
	t.Helper()
	st := store.NewMemory()
	creds, err := credential.New(st, make([]byte, 32))
	if err != nil {
		t.Fatalf("failed to build credential manager: %v", err)
	}
	svc := service.New(store.NewMemoryTx(), st, creds)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func coordinatorPayload(nationalID string) map[string]any {
	return map[string]any{
		"kind":        "visit_coordinator",
		"national_id": nationalID,
		"name":        "Budi Santoso",
		"phone":       "+62811111111",
		"campaign_id": uuid.New().String(),
		"region": map[string]string{
			"province": "31",
			"village":  "3171011001",
		},
	}
}

func TestRegisterCoordinatorViaHandler(t *testing.T) {
	router := newRosterRouter(t)

	rec := postJSON(t, router, "/roster/coordinators", coordinatorPayload("3171010101010001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering coordinator, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID       string `json:"id"`
		Kind     string `json:"kind"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" || created.Email == "" {
		t.Fatalf("expected id and email in response, got %+v", created)
	}
	if created.Password == "" {
		t.Fatalf("expected the initial password in the registration response")
	}
	if created.Status != "inactive" {
		t.Fatalf("expected a fresh record to be inactive, got %q", created.Status)
	}

	// Reads never echo the password.
	getReq := httptest.NewRequest(http.MethodGet, "/roster/persons/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching person, got %d", getRec.Code)
	}
	var fetched map[string]any
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode person: %v", err)
	}
	if _, ok := fetched["password"]; ok {
		t.Fatalf("password must not appear on reads")
	}
}

func TestDuplicateIdentityEnvelope(t *testing.T) {
	router := newRosterRouter(t)

	if rec := postJSON(t, router, "/roster/coordinators", coordinatorPayload("3171010101010002")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first registration, got %d", rec.Code)
	}
	rec := postJSON(t, router, "/roster/coordinators", coordinatorPayload("3171010101010002"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate national id, got %d", rec.Code)
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Error != "duplicate_identity" {
		t.Fatalf("expected duplicate_identity code, got %q", envelope.Error)
	}
	if envelope.Message == "" {
		t.Fatalf("expected an operator-facing message")
	}
}

func TestBadRequestRejectedBeforeService(t *testing.T) {
	router := newRosterRouter(t)

	payload := coordinatorPayload("not-a-national-id")
	rec := postJSON(t, router, "/roster/coordinators", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed national id, got %d", rec.Code)
	}

	payload = coordinatorPayload("3171010101010003")
	payload["kind"] = "volunteer"
	rec = postJSON(t, router, "/roster/coordinators", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for the volunteer kind on the coordinator route, got %d", rec.Code)
	}
}

func TestVolunteerRegistrationAndListing(t *testing.T) {
	router := newRosterRouter(t)

	coordRec := postJSON(t, router, "/roster/coordinators", coordinatorPayload("3171010101010004"))
	if coordRec.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering coordinator, got %d", coordRec.Code)
	}
	var coord struct {
		ID         string `json:"id"`
		CampaignID string `json:"campaign_id"`
	}
	if err := json.NewDecoder(coordRec.Body).Decode(&coord); err != nil {
		t.Fatalf("failed to decode coordinator: %v", err)
	}

	for i := 0; i < 2; i++ {
		payload := map[string]any{
			"actor_id":             coord.ID,
			"national_id":          fmt.Sprintf("317101010102%04d", i),
			"name":                 fmt.Sprintf("Volunteer %d", i),
			"campaign_id":          coord.CampaignID,
			"region":               map[string]string{"village": "3171011001"},
			"visit_track":          true,
			"visit_coordinator_id": coord.ID,
		}
		rec := postJSON(t, router, "/roster/volunteers", payload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 registering volunteer %d, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	listReq := httptest.NewRequest(http.MethodGet, "/roster/coordinators/"+coord.ID+"/volunteers", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing volunteers, got %d", listRec.Code)
	}
	var list struct {
		Persons []struct {
			Kind string `json:"kind"`
		} `json:"persons"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(list.Persons) != 2 {
		t.Fatalf("expected 2 volunteers, got %d", len(list.Persons))
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/roster/persons/"+coord.ID, nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting a coordinator with dependents, got %d", delRec.Code)
	}
}
