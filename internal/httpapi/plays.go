package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"playtrail/internal/store"
)

// defaultRecentLimit bounds the recently-played listing when the caller
// does not supply a limit parameter.
const defaultRecentLimit = 20

type trackPlayRequest struct {
	SongID   string  `json:"song_id"`
	UserID   string  `json:"user_id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	ImageURL *string `json:"image_url"`
	AudioURL *string `json:"audio_url"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type playedSong struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	ImageURL *string `json:"image_url"`
	AudioURL *string `json:"audio_url"`
}

type recentPlay struct {
	Songs    playedSong `json:"songs"`
	PlayedAt time.Time  `json:"played_at"`
}

func (s *Server) handleTrackPlay(w http.ResponseWriter, r *http.Request) {
	var req trackPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	// Required fields are checked here so malformed requests never reach
	// the store.
	if err := validateTrackPlay(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	_, err := s.plays.Record(r.Context(), store.Play{
		SongID:   req.SongID,
		UserID:   req.UserID,
		Title:    req.Title,
		Artist:   req.Artist,
		ImageURL: req.ImageURL,
		AudioURL: req.AudioURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidPlay) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (s *Server) handleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if strings.TrimSpace(userID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user id is required"})
		return
	}

	limit := defaultRecentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	plays, err := s.plays.Recent(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPlay) || errors.Is(err, store.ErrInvalidLimit) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	// An empty history serializes as [] rather than null.
	resp := make([]recentPlay, 0, len(plays))
	for _, play := range plays {
		resp = append(resp, recentPlay{
			Songs: playedSong{
				ID:       play.SongID,
				Title:    play.Title,
				Artist:   play.Artist,
				ImageURL: play.ImageURL,
				AudioURL: play.AudioURL,
			},
			PlayedAt: play.PlayedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func validateTrackPlay(req trackPlayRequest) error {
	switch {
	case strings.TrimSpace(req.SongID) == "":
		return errors.New("song_id is required")
	case strings.TrimSpace(req.UserID) == "":
		return errors.New("user_id is required")
	case strings.TrimSpace(req.Title) == "":
		return errors.New("title is required")
	case strings.TrimSpace(req.Artist) == "":
		return errors.New("artist is required")
	}
	return nil
}
