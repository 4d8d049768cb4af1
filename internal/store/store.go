// Package store persists analysis access grants in Postgres. A grant
// gives an API key a quota of analyses; each served analysis consumes
// one unit. The schema is a single access_grants table keyed by the
// API key.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ErrExhausted is returned by Consume when the grant has no remaining
// quota or has expired.
var ErrExhausted = errors.New("store: access grant exhausted")

// Grant is one row of access_grants.
type Grant struct {
	APIKey    string    `db:"api_key"`
	Remaining int       `db:"remaining"`
	Total     int       `db:"total"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store wraps the grants database.
type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS access_grants (
	api_key    TEXT PRIMARY KEY,
	remaining  INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Open connects to Postgres and ensures the schema exists. Returns nil
// when no database URL is configured; the HTTP layer then serves
// without quota enforcement.
func Open(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection; tests use it with sqlmock.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert creates or tops up a grant. Topping up adds to both the
// remaining and total counters and extends the expiry.
func (s *Store) Upsert(ctx context.Context, apiKey string, units int, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_grants (api_key, remaining, total, expires_at, updated_at)
		VALUES ($1, $2, $2, $3, now())
		ON CONFLICT (api_key) DO UPDATE SET
			remaining  = access_grants.remaining + EXCLUDED.remaining,
			total      = access_grants.total + EXCLUDED.total,
			expires_at = GREATEST(access_grants.expires_at, EXCLUDED.expires_at),
			updated_at = now()`,
		apiKey, units, expiresAt)
	if err != nil {
		return fmt.Errorf("store: upsert grant: %w", err)
	}
	return nil
}

// Consume atomically spends one unit of the grant. The decrement and
// the quota check happen in a single statement so concurrent requests
// cannot overspend.
func (s *Store) Consume(ctx context.Context, apiKey string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE access_grants
		SET remaining = remaining - 1, updated_at = now()
		WHERE api_key = $1 AND remaining > 0 AND expires_at > now()`,
		apiKey)
	if err != nil {
		return fmt.Errorf("store: consume grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: consume grant: %w", err)
	}
	if n == 0 {
		return ErrExhausted
	}
	return nil
}

// Lookup returns the grant for an API key, or nil when none exists.
func (s *Store) Lookup(ctx context.Context, apiKey string) (*Grant, error) {
	var g Grant
	err := s.db.GetContext(ctx, &g,
		`SELECT api_key, remaining, total, expires_at, updated_at
		 FROM access_grants WHERE api_key = $1`, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup grant: %w", err)
	}
	return &g, nil
}

// Sweep deletes grants that expired before the cutoff and returns the
// number removed.
func (s *Store) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM access_grants WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("store: sweep grants: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: sweep grants: %w", err)
	}
	if n > 0 {
		log.Info().Int64("removed", n).Msg("swept expired access grants")
	}
	return n, nil
}
