// Package monitor periodically re-runs the watched aggregation queries,
// persists consensus snapshots for line movement history and raises value
// alerts when a bookmaker's best offer beats the fair price.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Vodeneev/fairline/internal/aggregator"
	"github.com/Vodeneev/fairline/internal/consensus"
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
)

// Same event+side is not re-alerted within this window even if the value
// persists across ticks.
const alertCooldown = 30 * time.Minute

// Alerter receives value alerts. Satisfied by the telegram notifier.
type Alerter interface {
	ValueAlert(eventID, matchName, side string, offer models.Offer, fairOdds, valuePercent float64)
}

type Monitor struct {
	agg       *aggregator.Aggregator
	snapshots storage.SnapshotStorage // nil disables persistence
	notifier  Alerter
	threshold float64 // value percent, 0 disables alerts
	interval  time.Duration
	watch     []aggregator.Query

	mu      sync.Mutex
	alerted map[string]time.Time

	now func() time.Time
}

func New(agg *aggregator.Aggregator, snapshots storage.SnapshotStorage, notifier Alerter, threshold float64, interval time.Duration, watch []aggregator.Query) *Monitor {
	return &Monitor{
		agg:       agg,
		snapshots: snapshots,
		notifier:  notifier,
		threshold: threshold,
		interval:  interval,
		watch:     watch,
		alerted:   make(map[string]time.Time),
		now:       time.Now,
	}
}

// Start blocks until ctx is done, evaluating all watched queries once per
// interval. The first pass runs immediately.
func (m *Monitor) Start(ctx context.Context) {
	if len(m.watch) == 0 {
		slog.Info("monitor: no watched queries configured, idle")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pass(ctx)
		}
	}
}

func (m *Monitor) pass(ctx context.Context) {
	for _, q := range m.watch {
		results, err := m.agg.GetUnifiedOddsWithFair(ctx, q)
		if err != nil {
			slog.Warn("monitor: aggregation failed", "sport", q.Sport, "league", q.League, "error", err)
			continue
		}

		if m.snapshots != nil {
			if err := m.snapshots.StoreSnapshots(ctx, results); err != nil {
				slog.Warn("monitor: failed to store snapshots", "error", err)
			}
		}

		if m.notifier != nil && m.threshold > 0 {
			for _, res := range results {
				m.checkValue(res)
			}
		}
	}
}

// checkValue compares the best offer on each side against the vig-free
// consensus probability for that side.
func (m *Monitor) checkValue(res models.ConsensusResult) {
	if res.FairHomeProb == nil || res.FairAwayProb == nil {
		return
	}
	m.checkSide(res, "home", res.BestOffers.Home, *res.FairHomeProb, res.FairHomeOdds)
	m.checkSide(res, "away", res.BestOffers.Away, *res.FairAwayProb, res.FairAwayOdds)
}

func (m *Monitor) checkSide(res models.ConsensusResult, side string, offer *models.Offer, fairProb float64, fairOdds *float64) {
	if offer == nil || fairOdds == nil {
		return
	}
	value, ok := consensus.ValuePercent(offer.Odds, fairProb)
	if !ok || value < m.threshold {
		return
	}

	key := fmt.Sprintf("%s|%s|%s", res.EventID, side, offer.Bookmaker)
	now := m.now()
	m.mu.Lock()
	last, seen := m.alerted[key]
	if seen && now.Sub(last) < alertCooldown {
		m.mu.Unlock()
		return
	}
	m.alerted[key] = now
	m.mu.Unlock()

	matchName := res.EventID
	if len(res.Providers) > 0 {
		matchName = res.Providers[0].HomeTeam + " vs " + res.Providers[0].AwayTeam
	}
	slog.Info("monitor: value detected",
		"event_id", res.EventID, "side", side,
		"bookmaker", offer.Bookmaker, "odds", offer.Odds, "value_percent", value)
	m.notifier.ValueAlert(res.EventID, matchName, side, *offer, *fairOdds, value)
}
