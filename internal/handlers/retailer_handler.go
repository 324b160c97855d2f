package handlers

import (
	"net/http"

	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type RetailerHandler struct {
	Service *services.RetailerService
}

func NewRetailerHandler(s *services.RetailerService) *RetailerHandler {
	return &RetailerHandler{Service: s}
}

func (h *RetailerHandler) CreateRetailer(w http.ResponseWriter, r *http.Request) {
	var req models.RetailerRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	retailer, err := h.Service.CreateRetailer(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.Created(w, "Retailer created successfully", retailer)
}

func (h *RetailerHandler) GetRetailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	retailer, err := h.Service.GetRetailer(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, retailer)
}

func (h *RetailerHandler) ListRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.Service.ListRetailers(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, retailers)
}

func (h *RetailerHandler) UpdateRetailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.RetailerRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	retailer, err := h.Service.UpdateRetailer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, retailer)
}

func (h *RetailerHandler) DeleteRetailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.DeleteRetailer(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, "Retailer deleted successfully")
}
