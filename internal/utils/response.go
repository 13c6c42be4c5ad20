package utils

import (
	"encoding/json"
	"net/http"

	"github.com/crosslink-labs/crm-oauth/internal/logger"
	"go.uber.org/zap"
)

// WriteJSON writes a 200 JSON response
func WriteJSON(w http.ResponseWriter, data interface{}) {
	WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus writes a JSON response with an explicit status code
func WriteJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code, message string, status int) {
	WriteJSONStatus(w, status, map[string]string{
		"error":             code,
		"error_description": message,
	})
}
