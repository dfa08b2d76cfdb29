package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"playtrail/internal/store"
)

type stubPlayService struct {
	recordResponse store.Play
	recordErr      error
	recordCalls    int
	lastRecorded   store.Play

	recentResponse []store.Play
	recentErr      error
	lastUserID     string
	lastLimit      int
}

func (s *stubPlayService) Record(ctx context.Context, play store.Play) (store.Play, error) {
	s.recordCalls++
	s.lastRecorded = play
	if s.recordErr != nil {
		return store.Play{}, s.recordErr
	}
	return s.recordResponse, nil
}

func (s *stubPlayService) Recent(ctx context.Context, userID string, limit int) ([]store.Play, error) {
	s.lastUserID = userID
	s.lastLimit = limit
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	return s.recentResponse, nil
}

func newTestServer(svc *stubPlayService) http.Handler {
	return New(svc).Routes()
}

func TestTrackPlaySuccess(t *testing.T) {
	svc := &stubPlayService{}
	handler := newTestServer(svc)

	body := `{"song_id":"s1","user_id":"u1","title":"Teardrop","artist":"Massive Attack","image_url":"https://cdn.example.com/a.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/track-play", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("expected status %q, got %q", "success", resp.Status)
	}

	if svc.lastRecorded.SongID != "s1" || svc.lastRecorded.UserID != "u1" {
		t.Fatalf("unexpected recorded play: %+v", svc.lastRecorded)
	}
	if svc.lastRecorded.ImageURL == nil || *svc.lastRecorded.ImageURL != "https://cdn.example.com/a.jpg" {
		t.Fatalf("expected image url to pass through, got %v", svc.lastRecorded.ImageURL)
	}
	if svc.lastRecorded.AudioURL != nil {
		t.Fatalf("expected absent audio url to stay nil, got %v", svc.lastRecorded.AudioURL)
	}
}

func TestTrackPlayValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty song_id", body: `{"song_id":"","user_id":"u1","title":"A","artist":"X"}`},
		{name: "missing user_id", body: `{"song_id":"s1","title":"A","artist":"X"}`},
		{name: "blank title", body: `{"song_id":"s1","user_id":"u1","title":"  ","artist":"X"}`},
		{name: "missing artist", body: `{"song_id":"s1","user_id":"u1","title":"A"}`},
		{name: "invalid JSON", body: `{"song_id":`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubPlayService{}
			handler := newTestServer(svc)

			req := httptest.NewRequest(http.MethodPost, "/track-play", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if svc.recordCalls != 0 {
				t.Fatalf("expected store to be untouched, got %d calls", svc.recordCalls)
			}
		})
	}
}

func TestTrackPlayStoreFailure(t *testing.T) {
	svc := &stubPlayService{recordErr: errors.New("upsert play: connection refused")}
	handler := newTestServer(svc)

	body := `{"song_id":"s1","user_id":"u1","title":"A","artist":"X"}`
	req := httptest.NewRequest(http.MethodPost, "/track-play", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected an error message in the response")
	}
}

func TestTrackPlayMethodNotAllowed(t *testing.T) {
	handler := newTestServer(&stubPlayService{})

	req := httptest.NewRequest(http.MethodGet, "/track-play", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestRecentlyPlayed(t *testing.T) {
	newer := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Minute)
	image := "https://cdn.example.com/a.jpg"

	svc := &stubPlayService{
		recentResponse: []store.Play{
			{ID: 2, SongID: "s2", UserID: "u1", Title: "Angel", Artist: "Massive Attack", ImageURL: &image, PlayedAt: newer},
			{ID: 1, SongID: "s1", UserID: "u1", Title: "Teardrop", Artist: "Massive Attack", PlayedAt: older},
		},
	}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/recently-played/u1?limit=5", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUserID != "u1" {
		t.Fatalf("expected user u1, got %q", svc.lastUserID)
	}
	if svc.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", svc.lastLimit)
	}

	var resp []struct {
		Songs struct {
			ID       string  `json:"id"`
			Title    string  `json:"title"`
			Artist   string  `json:"artist"`
			ImageURL *string `json:"image_url"`
			AudioURL *string `json:"audio_url"`
		} `json:"songs"`
		PlayedAt time.Time `json:"played_at"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(resp))
	}
	if resp[0].Songs.ID != "s2" || resp[1].Songs.ID != "s1" {
		t.Fatalf("expected newest first, got %q then %q", resp[0].Songs.ID, resp[1].Songs.ID)
	}
	if resp[0].Songs.ImageURL == nil || *resp[0].Songs.ImageURL != image {
		t.Fatalf("expected image url %q, got %v", image, resp[0].Songs.ImageURL)
	}
	if resp[1].Songs.ImageURL != nil {
		t.Fatalf("expected null image url, got %v", resp[1].Songs.ImageURL)
	}
	if !resp[0].PlayedAt.Equal(newer) {
		t.Fatalf("expected played_at %v, got %v", newer, resp[0].PlayedAt)
	}
}

func TestRecentlyPlayedDefaultLimit(t *testing.T) {
	svc := &stubPlayService{}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/recently-played/u1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.lastLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", svc.lastLimit)
	}
}

func TestRecentlyPlayedEmptyHistory(t *testing.T) {
	handler := newTestServer(&stubPlayService{})

	req := httptest.NewRequest(http.MethodGet, "/recently-played/unknown_user", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestRecentlyPlayedInvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-3"} {
		svc := &stubPlayService{}
		handler := newTestServer(svc)

		req := httptest.NewRequest(http.MethodGet, "/recently-played/u1?limit="+limit, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected status 400, got %d", limit, rec.Code)
		}
	}
}

func TestRecentlyPlayedStoreFailure(t *testing.T) {
	svc := &stubPlayService{recentErr: errors.New("select plays: connection refused")}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/recently-played/u1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(&stubPlayService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), []byte("OK")) {
		t.Fatalf("expected body OK, got %q", rec.Body.String())
	}
}
