package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type fakeTradeAPI struct {
	records map[int]models.TradeResponse
	nextID  int
	listErr error
	created []map[string]any
	updated []int
}

func newFakeTradeAPI() *fakeTradeAPI {
	return &fakeTradeAPI{records: map[int]models.TradeResponse{}, nextID: 1}
}

func (f *fakeTradeAPI) List(context.Context) ([]models.TradeResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.TradeResponse{}
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeTradeAPI) Get(_ context.Context, id int) (models.TradeResponse, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, apperr.NotFound("purchase", id)
	}
	return r, nil
}

func (f *fakeTradeAPI) Create(_ context.Context, raw map[string]any) (models.TradeResponse, error) {
	if raw["farmerName"] == nil {
		return nil, apperr.Validation("Missing required fields: farmerName")
	}
	f.created = append(f.created, raw)
	id := f.nextID
	f.nextID++
	f.records[id] = models.TradeResponse{"id": id, "farmerName": raw["farmerName"]}
	return f.records[id], nil
}

func (f *fakeTradeAPI) Update(_ context.Context, id int, raw map[string]any) (models.TradeResponse, error) {
	if _, ok := f.records[id]; !ok {
		return nil, apperr.NotFound("purchase", id)
	}
	f.updated = append(f.updated, id)
	f.records[id] = models.TradeResponse{"id": id, "farmerName": raw["farmerName"]}
	return f.records[id], nil
}

func (f *fakeTradeAPI) Delete(_ context.Context, id int) error {
	if _, ok := f.records[id]; !ok {
		return apperr.NotFound("purchase", id)
	}
	delete(f.records, id)
	return nil
}

func (f *fakeTradeAPI) Preview(context.Context, map[string]any) *models.TradePreview {
	return &models.TradePreview{Cages: 10}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestTradeHandlerCreate(t *testing.T) {
	api := newFakeTradeAPI()
	h := NewTradeHandler(api, models.PurchaseProfile)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"valid", `{"farmerName":"Farm A","cages":10}`, http.StatusCreated, ""},
		{"empty body", ``, http.StatusBadRequest, "Validation error"},
		{"missing party", `{}`, http.StatusBadRequest, "Validation error"},
		{"malformed", `{"farmerName":`, http.StatusBadRequest, "Validation error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
				return
			}
			if body["success"] != true || body["message"] != "Purchase created successfully" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestTradeHandlerList(t *testing.T) {
	api := newFakeTradeAPI()
	api.records[1] = models.TradeResponse{"id": 1}
	h := NewTradeHandler(api, models.PurchaseProfile)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/purchases", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 1 || body["success"] != true {
		t.Errorf("body = %v", body)
	}

	api.listErr = apperr.Connection("list purchase", context.DeadlineExceeded)
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/purchases", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status on store failure = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Database error" || body["message"] == "" {
		t.Errorf("failure body = %v", body)
	}
}

func TestTradeHandlerLegacyDelete(t *testing.T) {
	api := newFakeTradeAPI()
	api.records[7] = models.TradeResponse{"id": 7}
	h := NewTradeHandler(api, models.PurchaseProfile)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"missing id", "/purchases", http.StatusBadRequest},
		{"non numeric", "/purchases?id=abc", http.StatusBadRequest},
		{"absent row", "/purchases?id=99", http.StatusNotFound},
		{"deleted", "/purchases?id=7", http.StatusOK},
		{"already deleted", "/purchases?id=7", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.LegacyDelete(rec, httptest.NewRequest(http.MethodDelete, tt.target, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestTradeHandlerLegacySave(t *testing.T) {
	api := newFakeTradeAPI()
	h := NewTradeHandler(api, models.PurchaseProfile)

	rec := httptest.NewRecorder()
	h.LegacySave(rec, httptest.NewRequest(http.MethodPost, "/purchases", strings.NewReader(`{"farmerName":"Farm A"}`)))
	if rec.Code != http.StatusCreated || len(api.created) != 1 {
		t.Fatalf("create: status = %d, created = %d", rec.Code, len(api.created))
	}

	rec = httptest.NewRecorder()
	h.LegacySave(rec, httptest.NewRequest(http.MethodPost, "/purchases", strings.NewReader(`{"id":"1","farmerName":"Farm B"}`)))
	if rec.Code != http.StatusOK || len(api.updated) != 1 || api.updated[0] != 1 {
		t.Fatalf("update: status = %d, updated = %v", rec.Code, api.updated)
	}

	rec = httptest.NewRecorder()
	h.LegacySave(rec, httptest.NewRequest(http.MethodPost, "/purchases", strings.NewReader(`{"id":5,"farmerName":"Farm C"}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("update of absent row: status = %d, want 404", rec.Code)
	}
}

func TestTradeHandlerPathRoutes(t *testing.T) {
	api := newFakeTradeAPI()
	api.records[3] = models.TradeResponse{"id": 3, "farmerName": "Farm A"}
	h := NewTradeHandler(api, models.PurchaseProfile)

	router := mux.NewRouter()
	router.HandleFunc("/api/purchases/preview", h.Preview).Methods(http.MethodPost)
	router.HandleFunc("/api/purchases/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/purchases/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/purchases/{id}", h.Delete).Methods(http.MethodDelete)

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/api/purchases/3", "", http.StatusOK},
		{http.MethodGet, "/api/purchases/4", "", http.StatusNotFound},
		{http.MethodGet, "/api/purchases/zero", "", http.StatusBadRequest},
		{http.MethodPut, "/api/purchases/3", `{"farmerName":"Farm B"}`, http.StatusOK},
		{http.MethodPost, "/api/purchases/preview", `{"cages":"10"}`, http.StatusOK},
		{http.MethodDelete, "/api/purchases/3", "", http.StatusOK},
		{http.MethodDelete, "/api/purchases/3", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
		if rec.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d (%s)", tt.method, tt.target, rec.Code, tt.wantStatus, rec.Body.String())
		}
	}
}
