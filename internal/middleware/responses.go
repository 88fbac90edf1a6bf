package middleware

import (
	"encoding/json"
	"net/http"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

// errorBody is what an htmx caller receives when a middleware check
// rejects the request. RequestID ties the response to the request log.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError rejects a request before it reaches a handler. htmx swaps
// get a JSON body they can inspect; full page loads get plain text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:     msg,
		RequestID: chiMid.GetReqID(r.Context()),
	})
}
