package watchlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// PostgresStore keeps the watchlist in a PostgreSQL table
// ⭐ SSOT: watchlist SQL lives here only
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgresStore creates a new PostgreSQL-backed watchlist
func NewPostgresStore(pool *pgxpool.Pool, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: log,
	}
}

var _ Store = (*PostgresStore)(nil)

// EnsureSchema creates the watchlist table if missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS watchlist (
			ticker     TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
		)
	`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create watchlist table: %w", err)
	}
	return nil
}

// List returns the tickers in insertion order
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT ticker FROM watchlist ORDER BY created_at, ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist: %w", err)
	}

	return tickers, nil
}

// Add inserts a ticker
func (s *PostgresStore) Add(ctx context.Context, ticker string) error {
	t, err := normalize(ticker)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `INSERT INTO watchlist (ticker) VALUES ($1) ON CONFLICT (ticker) DO NOTHING`, t)
	if err != nil {
		return fmt.Errorf("failed to insert watchlist ticker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, t)
	}

	s.logger.WithTicker(t).Info("Added ticker to watchlist")
	return nil
}

// Remove deletes a ticker
func (s *PostgresStore) Remove(ctx context.Context, ticker string) error {
	t, err := normalize(ticker)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, t)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist ticker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t)
	}

	s.logger.WithTicker(t).Info("Removed ticker from watchlist")
	return nil
}

// Contains reports whether the ticker is listed
func (s *PostgresStore) Contains(ctx context.Context, ticker string) (bool, error) {
	t, err := normalize(ticker)
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM watchlist WHERE ticker = $1)`, t).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return exists, nil
}
