package handlers

import (
	"net/http"

	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type FarmerHandler struct {
	Service *services.FarmerService
}

func NewFarmerHandler(s *services.FarmerService) *FarmerHandler {
	return &FarmerHandler{Service: s}
}

func (h *FarmerHandler) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	var req models.FarmerRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	farmer, err := h.Service.CreateFarmer(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Created(w, "Farmer created successfully", farmer)
}

func (h *FarmerHandler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	farmer, err := h.Service.GetFarmer(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.Service.ListFarmers(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, farmers)
}

func (h *FarmerHandler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.FarmerRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	farmer, err := h.Service.UpdateFarmer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.DeleteFarmer(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, "Farmer deleted successfully")
}
