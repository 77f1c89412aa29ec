package api

import (
	"encoding/json"
	"net/http"

	"github.com/septivank/sensor-ingest/internal/service"
	"github.com/septivank/sensor-ingest/internal/validator"
)

const successMessage = "Sensor data saved successfully"

type successResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    *service.Result `json:"data"`
}

type errorResponse struct {
	Error   string                 `json:"error"`
	Details []validator.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, details []validator.FieldError) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}
