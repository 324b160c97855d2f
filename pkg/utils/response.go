package utils

import (
	"encoding/json"
	"net/http"

	"farm-backend/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes {"error": kind, "message": detail} with the status matching
// the error's category.
func Error(w http.ResponseWriter, err error) {
	JSON(w, apperr.HTTPStatus(err), map[string]string{
		"error":   string(apperr.KindOf(err)),
		"message": err.Error(),
	})
}

// List wraps a collection in the {"success": true, "data": ...} envelope.
func List(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// Created answers a successful create.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "message": message, "data": data})
}

// Message answers a write that returns no body, such as a delete.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}
