package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidPlay signals a play event with missing required fields.
	ErrInvalidPlay = errors.New("invalid play")
	// ErrInvalidLimit signals a non-positive result limit.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	// ErrConstraintViolation signals a database constraint failure outside
	// the expected upsert path.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// isConstraintViolation reports whether err is a Postgres integrity
// constraint error (SQLSTATE class 23).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
