// Package aggregator is the public read entry point of the pipeline: it maps
// currently-cached provider payloads to canonical records, merges records
// per event and attaches the fair-price consensus. Everything happens lazily
// at read time over already-written cache entries, so no locking is needed.
package aggregator

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/fairline/internal/consensus"
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
	"github.com/Vodeneev/fairline/internal/providers"
)

// Query scopes one aggregation read.
type Query struct {
	Sport  string
	League string
}

// Aggregator reads cached payloads and produces consensus results.
type Aggregator struct {
	reg       *providers.Registry
	store     storage.Store
	fuzzyJoin bool
}

// New builds an aggregator. With fuzzyJoin enabled, records are merged
// across providers by normalized team names + kickoff proximity; otherwise
// only identical provider-native event ids merge, which means the same real
// match from two providers may stay in separate groups.
func New(reg *providers.Registry, store storage.Store, fuzzyJoin bool) *Aggregator {
	return &Aggregator{reg: reg, store: store, fuzzyJoin: fuzzyJoin}
}

// GetUnifiedOddsWithFair returns one entry per event group. Entries without
// a computable fair price still carry the raw provider records. No output
// ordering is guaranteed; callers needing presentation order sort
// explicitly.
func (a *Aggregator) GetUnifiedOddsWithFair(ctx context.Context, q Query) ([]models.ConsensusResult, error) {
	records, err := a.collect(ctx, a.reg.Priced(), q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// Degraded-but-non-empty: fall back to fixture-only feeds so callers
		// still see upcoming events when every priced provider is dark.
		records, err = a.collect(ctx, a.reg.FixtureOnly(), q)
		if err != nil {
			return nil, err
		}
	}

	groups, order := a.group(records)

	results := make([]models.ConsensusResult, 0, len(order))
	for _, key := range order {
		recs := groups[key]
		if res := consensus.ComputeConsensusForEvent(recs); res != nil {
			results = append(results, *res)
			continue
		}
		// No fair price computable for this group. The entry is still
		// emitted: raw provider data and one-sided best offers remain valid.
		results = append(results, models.ConsensusResult{
			EventID:    recs[0].EventID,
			BestOffers: consensus.BestOffers(recs),
			Providers:  recs,
		})
	}
	return results, nil
}

// collect maps every cached payload of the given providers. A provider with
// no cached payloads, or a payload the mapper rejects, contributes nothing;
// schema drift and cache misses never abort a read.
func (a *Aggregator) collect(ctx context.Context, provs []providers.Provider, q Query) ([]models.OddsRecord, error) {
	meta := providers.Meta{Sport: q.Sport, League: q.League}

	var records []models.OddsRecord
	for _, p := range provs {
		keys, err := a.store.Keys(ctx, storage.RawPayloadPattern(p.ID))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			payload, ok, err := a.store.Get(ctx, key)
			if err != nil || !ok {
				continue // expired between Keys and Get, or transient store error
			}
			recs := p.Mapper([]byte(payload), meta)
			if len(recs) == 0 {
				slog.Debug("cached payload yielded no records", "provider", p.ID, "key", key)
				continue
			}
			records = append(records, recs...)
		}
	}
	return records, nil
}

// group buckets records by join key, preserving insertion order within each
// group and first-seen order across groups.
func (a *Aggregator) group(records []models.OddsRecord) (map[string][]models.OddsRecord, []string) {
	groups := make(map[string][]models.OddsRecord)
	var order []string
	for _, rec := range records {
		key := rec.EventID
		if a.fuzzyJoin {
			if fk := fuzzyGroupKey(rec); fk != "" {
				key = fk
			}
		}
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}
	return groups, order
}
