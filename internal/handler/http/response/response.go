package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the envelope written for every reply, success or failure.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Meta       interface{} `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload Response) {
	payload.StatusCode = statusCode
	payload.Success = statusCode < http.StatusBadRequest

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Success responses
func Success(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, message string, data interface{}, meta interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
func BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Message: message})
}

// ValidationError carries the failing fields in data.
func ValidationError(w http.ResponseWriter, details interface{}) {
	writeJSON(w, http.StatusUnprocessableEntity, Response{
		Message: "Validation failed",
		Data:    details,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, Response{Message: message})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, Response{Message: message})
}

func NotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Response{Message: message})
}

func Conflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, Response{Message: message})
}

func InternalServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, Response{Message: message})
}
