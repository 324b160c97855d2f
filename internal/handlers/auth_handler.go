package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
	logger  *zap.Logger
}

func NewAuthHandler(s *services.UserService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{Service: s, logger: logger}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.logger.Warn("login failed", zap.String("email", req.Email), zap.String("ip", getIPAddress(r)))
		utils.JSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "Unauthorized",
			"message": err.Error(),
		})
		return
	}
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.logger.Info("login",
		zap.Int("user_id", authResp.User.ID),
		zap.String("ip", getIPAddress(r)),
		zap.String("user_agent", r.UserAgent()))
	utils.JSON(w, http.StatusOK, authResp)
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
