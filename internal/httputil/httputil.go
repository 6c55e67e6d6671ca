package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ParseJSON decodes the request body into v. Empty bodies are allowed so
// commands with only path parameters parse cleanly.
func ParseJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// PathVar returns a chi URL parameter.
func PathVar(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// OkJSON writes a 200 response with a JSON body.
func OkJSON(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

// BadRequest writes a 400 with an error message.
func BadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 with an error message.
func NotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

// Conflict writes a 409 with an error message.
func Conflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, message)
}

// InternalError writes a 500 with an error message.
func InternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
