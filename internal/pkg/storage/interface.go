package storage

import (
	"context"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

// Store is the cache/key-value surface the pipeline shares. It is the only
// shared mutable resource in the core: writes are independent key sets except
// Incr, which must be atomic (failure counters).
type Store interface {
	// Get returns the value for key. A key that was never set or whose TTL
	// elapsed is a miss: ok=false, no error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Incr atomically increments the integer at key and returns the new
	// value. ttl applies when the increment creates the key, so a counter
	// ages out ttl after its first bump; ttl <= 0 means no expiry.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Keys returns all keys matching a glob-style pattern (fallback scans).
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Del removes keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error

	Close() error
}

// SnapshotStorage persists raw per-bookmaker moneyline quotes for
// line-movement inspection. Consensus output itself is never persisted.
type SnapshotStorage interface {
	StoreSnapshots(ctx context.Context, results []models.ConsensusResult) error
	LatestForEvent(ctx context.Context, eventID string) ([]OddsSnapshot, error)
	Close() error
}

// OddsSnapshot is one stored quote: a bookmaker's American price for one side
// of an event at a point in time.
type OddsSnapshot struct {
	EventID    string    `json:"event_id"`
	Bookmaker  string    `json:"bookmaker"`
	Side       string    `json:"side"` // "home" | "away"
	Odds       float64   `json:"odds"`
	RecordedAt time.Time `json:"recorded_at"`
}
