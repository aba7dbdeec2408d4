package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageBody is the JSON error shape returned for every rejected request.
type MessageBody struct {
	Message string `json:"Message"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a `{"Message": ...}` body with the given status code.
func WriteMessage(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, MessageBody{Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
