package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

var _ SnapshotStorage = (*PostgresSnapshotStorage)(nil)

// PostgresSnapshotStorage stores per-bookmaker moneyline snapshots for line
// movement inspection.
type PostgresSnapshotStorage struct {
	db *sql.DB
}

// NewPostgresSnapshotStorage opens the connection and ensures the schema.
func NewPostgresSnapshotStorage(dsn string) (*PostgresSnapshotStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresSnapshotStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL odds snapshot storage initialized")
	return s, nil
}

func (s *PostgresSnapshotStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS odds_snapshots (
		id SERIAL PRIMARY KEY,
		event_id VARCHAR(500) NOT NULL,
		bookmaker VARCHAR(100) NOT NULL,
		side VARCHAR(10) NOT NULL,
		odds DECIMAL(10, 2) NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(event_id, bookmaker, side)
	);
	CREATE INDEX IF NOT EXISTS idx_odds_snapshots_event ON odds_snapshots(event_id, recorded_at);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreSnapshots upserts the current moneyline quote of every record in every
// result. Only priced sides are written; fixture-only records are skipped.
func (s *PostgresSnapshotStorage) StoreSnapshots(ctx context.Context, results []models.ConsensusResult) error {
	const query = `
	INSERT INTO odds_snapshots (event_id, bookmaker, side, odds, recorded_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (event_id, bookmaker, side)
	DO UPDATE SET odds = EXCLUDED.odds, recorded_at = EXCLUDED.recorded_at`

	now := time.Now().UTC()
	for _, res := range results {
		for _, rec := range res.Providers {
			if rec.Markets.Moneyline.Home != nil {
				if _, err := s.db.ExecContext(ctx, query, res.EventID, rec.Bookmaker, "home", *rec.Markets.Moneyline.Home, now); err != nil {
					return fmt.Errorf("store snapshot %s/%s: %w", res.EventID, rec.Bookmaker, err)
				}
			}
			if rec.Markets.Moneyline.Away != nil {
				if _, err := s.db.ExecContext(ctx, query, res.EventID, rec.Bookmaker, "away", *rec.Markets.Moneyline.Away, now); err != nil {
					return fmt.Errorf("store snapshot %s/%s: %w", res.EventID, rec.Bookmaker, err)
				}
			}
		}
	}
	return nil
}

// LatestForEvent returns the stored quotes for one event, newest first.
func (s *PostgresSnapshotStorage) LatestForEvent(ctx context.Context, eventID string) ([]OddsSnapshot, error) {
	const query = `
	SELECT event_id, bookmaker, side, odds, recorded_at
	FROM odds_snapshots
	WHERE event_id = $1
	ORDER BY recorded_at DESC, bookmaker, side`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots for %s: %w", eventID, err)
	}
	defer rows.Close()

	var snaps []OddsSnapshot
	for rows.Next() {
		var snap OddsSnapshot
		if err := rows.Scan(&snap.EventID, &snap.Bookmaker, &snap.Side, &snap.Odds, &snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *PostgresSnapshotStorage) Close() error {
	return s.db.Close()
}
