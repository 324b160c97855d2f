package handlers

import (
	"context"
	"net/http"

	"farm-backend/internal/cache"
	"farm-backend/internal/coerce"
	"farm-backend/internal/models"
	"farm-backend/pkg/utils"
)

// TradeAPI is the record pipeline behind the handler. *services.TradeService
// satisfies it.
type TradeAPI interface {
	List(ctx context.Context) ([]models.TradeResponse, error)
	Get(ctx context.Context, id int) (models.TradeResponse, error)
	Create(ctx context.Context, raw map[string]any) (models.TradeResponse, error)
	Update(ctx context.Context, id int, raw map[string]any) (models.TradeResponse, error)
	Delete(ctx context.Context, id int) error
	Preview(ctx context.Context, raw map[string]any) *models.TradePreview
}

// TradeHandler serves one kind of trade record.
type TradeHandler struct {
	Service TradeAPI
	Profile models.TradeProfile
}

func NewTradeHandler(s TradeAPI, profile models.TradeProfile) *TradeHandler {
	return &TradeHandler{Service: s, Profile: profile}
}

func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, records)
}

func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	record, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": record})
}

func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeForm(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	record, err := h.Service.Create(r.Context(), raw)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Created(w, h.Profile.Label+" created successfully", record)
}

func (h *TradeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	raw, err := decodeForm(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	record, err := h.Service.Update(r.Context(), id, raw)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": h.Profile.Label + " updated successfully",
		"data":    record,
	})
}

func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	h.delete(w, r, id)
}

// Preview computes the derived fields of an unsaved form.
func (h *TradeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeForm(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": h.Service.Preview(r.Context(), raw)})
}

// LegacySave answers POST on the unprefixed route: a body carrying an id
// replaces that record, anything else creates one.
func (h *TradeHandler) LegacySave(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeForm(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	id := coerce.Apply(raw, []coerce.Rule{{Name: "id", Kind: coerce.Integer}}).Int("id")
	if id <= 0 {
		record, err := h.Service.Create(r.Context(), raw)
		if err != nil {
			utils.Error(w, err)
			return
		}
		cache.InvalidateReportCaches(r.Context())
		utils.Created(w, h.Profile.Label+" created successfully", record)
		return
	}

	record, err := h.Service.Update(r.Context(), id, raw)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": h.Profile.Label + " updated successfully",
		"data":    record,
	})
}

// LegacyDelete answers DELETE /<entity>?id=.
func (h *TradeHandler) LegacyDelete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}
	h.delete(w, r, id)
}

func (h *TradeHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Message(w, h.Profile.Label+" deleted successfully")
}
