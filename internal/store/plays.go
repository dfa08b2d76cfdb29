package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Play is one row of a user's listening history: the most recent time
// the user played a given song. At most one row exists per
// (song_id, user_id) pair.
type Play struct {
	ID       int64     `json:"id"`
	SongID   string    `json:"songId"`
	UserID   string    `json:"userId"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	ImageURL *string   `json:"imageUrl"`
	AudioURL *string   `json:"audioUrl"`
	PlayedAt time.Time `json:"playedAt"`
}

// RecordPlay upserts a play event keyed by (song_id, user_id). A repeat
// play of the same song refreshes the row's display fields and advances
// played_at instead of inserting a second row. The timestamp is assigned
// by the database at write time.
func (s *Store) RecordPlay(ctx context.Context, play Play) (Play, error) {
	play.SongID = strings.TrimSpace(play.SongID)
	play.UserID = strings.TrimSpace(play.UserID)
	play.Title = strings.TrimSpace(play.Title)
	play.Artist = strings.TrimSpace(play.Artist)

	if err := validatePlay(play); err != nil {
		return Play{}, err
	}

	// Concurrent upserts for the same key serialize on the unique index;
	// the surviving row carries the timestamp of the statement that
	// committed last.
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO recently_played (song_id, user_id, title, artist, image_url, audio_url, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (song_id, user_id)
		DO UPDATE SET title = EXCLUDED.title,
			artist = EXCLUDED.artist,
			image_url = EXCLUDED.image_url,
			audio_url = EXCLUDED.audio_url,
			played_at = EXCLUDED.played_at
		RETURNING id, played_at
	`, play.SongID, play.UserID, play.Title, play.Artist, play.ImageURL, play.AudioURL).
		Scan(&play.ID, &play.PlayedAt)
	if err != nil {
		// The ON CONFLICT clause absorbs the expected unique violation, so
		// any constraint error here is a schema mismatch rather than a
		// concurrent replay.
		if isConstraintViolation(err) {
			return Play{}, ErrConstraintViolation
		}
		return Play{}, fmt.Errorf("upsert play: %w", err)
	}

	return play, nil
}

// RecentPlays returns up to limit plays for the user, most recent first.
// Ties in played_at break on id descending so results are deterministic.
// A user with no history yields an empty slice, not an error.
func (s *Store) RecentPlays(ctx context.Context, userID string, limit int) ([]Play, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidPlay)
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, song_id, user_id, title, artist, image_url, audio_url, played_at
		FROM recently_played
		WHERE user_id = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var (
			play     Play
			imageURL sql.NullString
			audioURL sql.NullString
		)
		if err := rows.Scan(&play.ID, &play.SongID, &play.UserID, &play.Title, &play.Artist, &imageURL, &audioURL, &play.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		if imageURL.Valid {
			play.ImageURL = &imageURL.String
		}
		if audioURL.Valid {
			play.AudioURL = &audioURL.String
		}
		plays = append(plays, play)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}

	return plays, nil
}

func validatePlay(play Play) error {
	switch {
	case play.SongID == "":
		return fmt.Errorf("%w: song id is required", ErrInvalidPlay)
	case play.UserID == "":
		return fmt.Errorf("%w: user id is required", ErrInvalidPlay)
	case play.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidPlay)
	case play.Artist == "":
		return fmt.Errorf("%w: artist is required", ErrInvalidPlay)
	}
	return nil
}
