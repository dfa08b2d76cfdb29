package plays

import (
	"context"

	"playtrail/internal/store"
)

// PlayStore exposes the persistence operations required for play tracking.
type PlayStore interface {
	RecordPlay(ctx context.Context, play store.Play) (store.Play, error)
	RecentPlays(ctx context.Context, userID string, limit int) ([]store.Play, error)
}

// Service exposes play-history operations.
type Service interface {
	Record(ctx context.Context, play store.Play) (store.Play, error)
	Recent(ctx context.Context, userID string, limit int) ([]store.Play, error)
}

type service struct {
	store PlayStore
}

// New constructs a play Service backed by the provided store.
func New(playStore PlayStore) Service {
	return &service{store: playStore}
}

func (s *service) Record(ctx context.Context, play store.Play) (store.Play, error) {
	if err := ctx.Err(); err != nil {
		return store.Play{}, err
	}
	return s.store.RecordPlay(ctx, play)
}

func (s *service) Recent(ctx context.Context, userID string, limit int) ([]store.Play, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.RecentPlays(ctx, userID, limit)
}
