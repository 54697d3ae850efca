// Package handler exposes the bot's status endpoints for deployment probes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Readiness reports whether the spreadsheet backend accepted the startup
// connection. Implemented by the sheets service.
type Readiness interface {
	Available() bool
}

// NewRouter wires the probe routes.
func NewRouter(sheets Readiness) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Readiness degrades when the sheet connection failed at startup; the bot
	// still serves search, so this is a warning surface, not a liveness one.
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if sheets.Available() {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"reason": "sheets backend unavailable",
		})
	})

	return r
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
