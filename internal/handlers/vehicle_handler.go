package handlers

import (
	"net/http"

	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type VehicleHandler struct {
	Service *services.VehicleService
}

func NewVehicleHandler(s *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{Service: s}
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.VehicleRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	vehicle, err := h.Service.CreateVehicle(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Created(w, "Vehicle created successfully", vehicle)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	vehicle, err := h.Service.GetVehicle(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.ListVehicles(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, vehicles)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.VehicleRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	vehicle, err := h.Service.UpdateVehicle(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.DeleteVehicle(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, "Vehicle deleted successfully")
}
