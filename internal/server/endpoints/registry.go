// Package endpoints defines the HTTP API surface and its CLI mirrors.
package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/jackzampolin/titlescan/internal/api"
)

// All returns every endpoint to register with the server.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&StatusEndpoint{},
		&ExtractEndpoint{},
		&CallsListEndpoint{},
		&CallsGetEndpoint{},
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
		&StaticEndpoint{},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response. Detail carries the full
// diagnostic chain for display at the presentation boundary.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeErrorDetail writes a JSON error response with diagnostic detail.
func writeErrorDetail(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Detail: detail})
}
