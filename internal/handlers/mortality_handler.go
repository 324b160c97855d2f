package handlers

import (
	"net/http"

	"farm-backend/internal/cache"
	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type MortalityHandler struct {
	Service *services.MortalityService
}

func NewMortalityHandler(s *services.MortalityService) *MortalityHandler {
	return &MortalityHandler{Service: s}
}

func (h *MortalityHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req models.MortalityRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	record, err := h.Service.CreateRecord(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Created(w, "Mortality recorded successfully", record)
}

func (h *MortalityHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	record, err := h.Service.GetRecord(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

func (h *MortalityHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListRecords(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, records)
}

func (h *MortalityHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.MortalityRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	record, err := h.Service.UpdateRecord(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.JSON(w, http.StatusOK, record)
}

func (h *MortalityHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.DeleteRecord(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Message(w, "Mortality record deleted successfully")
}
