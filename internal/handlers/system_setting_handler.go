package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"farm-backend/internal/middleware"
	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type SystemSettingHandler struct {
	Service *services.SystemSettingService
}

func NewSystemSettingHandler(service *services.SystemSettingService) *SystemSettingHandler {
	return &SystemSettingHandler{Service: service}
}

func (h *SystemSettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.Service.GetSetting(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

func (h *SystemSettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.ListSettings(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, settings)
}

func (h *SystemSettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req models.UpdateSettingRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	// Zero when authentication is disabled; stored as NULL.
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.UpdateSetting(r.Context(), key, req.SettingValue, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, "Setting updated successfully")
}
