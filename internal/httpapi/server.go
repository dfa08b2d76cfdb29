package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"playtrail/internal/store"
)

// PlayService captures the play-history operations needed by the HTTP handlers.
type PlayService interface {
	Record(ctx context.Context, play store.Play) (store.Play, error)
	Recent(ctx context.Context, userID string, limit int) ([]store.Play, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	plays PlayService
}

// New configures a Server with the given play service.
func New(plays PlayService) *Server {
	return &Server{plays: plays}
}

// Routes exposes the HTTP handlers for play tracking.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /track-play", s.handleTrackPlay)
	mux.HandleFunc("GET /recently-played/{user_id}", s.handleRecentlyPlayed)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
