package utils

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes a JSON error response of the form {"message": ...}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// FieldError is a single field-level validation violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed writes the violation list as a 400 response
func ValidationFailed(w http.ResponseWriter, violations []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{"errors": violations})
}
