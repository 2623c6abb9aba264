// Package scheduler drives the periodic fetch loop and owns the
// per-(provider, endpoint) health state machine. It is the only writer of
// provider health: success resets, failure escalates HEALTHY -> DEGRADED ->
// BACKOFF with exponential delay, and a backed-off endpoint is skipped
// outright until its deadline passes. This is the core defense against a
// failing upstream burning API quota.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vodeneev/fairline/internal/fetch"
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
	"github.com/Vodeneev/fairline/internal/providers"
)

// FetchFunc performs one upstream call. Matches (*fetch.Client).Fetch so
// tests can inject failures without a network.
type FetchFunc func(ctx context.Context, prov providers.Provider, endpoint string) (*fetch.Response, error)

// BackoffNotifier is told when a pair first enters the BACKOFF state.
type BackoffNotifier interface {
	ProviderBackoff(h models.ProviderHealth)
}

// Config holds scheduler tuning.
type Config struct {
	Interval         time.Duration
	Concurrency      int // provider fan-out bound within one tick
	FailureThreshold int // consecutive failures before BACKOFF
	BaseBackoff      time.Duration
	MaxBackoff       time.Duration
	RateLimitTrip    int64 // 429 count that forces BACKOFF regardless of threshold
	CacheTTL         time.Duration
	FailureTTL       time.Duration
}

// Scheduler runs the tick loop. Ticks never overlap: an overrunning tick
// causes the next scheduled one to be skipped, not queued.
type Scheduler struct {
	cfg     Config
	reg     *providers.Registry
	store   storage.Store
	fetchFn FetchFunc

	notifier BackoffNotifier
	now      func() time.Time

	inTick atomic.Bool

	mu     sync.Mutex
	health map[string]*models.ProviderHealth

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a scheduler. fetchFn is typically (*fetch.Client).Fetch.
func New(cfg Config, reg *providers.Registry, store storage.Store, fetchFn FetchFunc) *Scheduler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	return &Scheduler{
		cfg:     cfg,
		reg:     reg,
		store:   store,
		fetchFn: fetchFn,
		now:     time.Now,
		health:  make(map[string]*models.ProviderHealth),
		stop:    make(chan struct{}),
	}
}

// SetNotifier installs an optional backoff notifier. Must be called before Start.
func (s *Scheduler) SetNotifier(n BackoffNotifier) {
	s.notifier = n
}

// Start runs one tick immediately, then ticks every Interval until Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	slog.Info("scheduler started",
		"interval", s.cfg.Interval,
		"providers", len(s.reg.All()),
		"failure_threshold", s.cfg.FailureThreshold,
	)
}

// Stop ends the tick loop. An in-flight tick finishes naturally so cache
// writes are never cut half-way.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick fetches every configured (provider, endpoint) pair once. Providers
// fan out concurrently under a bounded semaphore; endpoints of one provider
// run sequentially to respect per-host limits. A failing endpoint never
// aborts the tick.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.inTick.CompareAndSwap(false, true) {
		slog.Warn("tick overrun, skipping this interval")
		ticksSkipped.Inc()
		return
	}
	defer s.inTick.Store(false)

	start := s.now()
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, prov := range s.reg.All() {
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			for _, ep := range p.Endpoints {
				s.attempt(ctx, p, ep)
			}
		}(prov)
	}
	wg.Wait()

	tickDuration.Observe(s.now().Sub(start).Seconds())
}

func (s *Scheduler) attempt(ctx context.Context, p providers.Provider, endpoint string) {
	h := s.healthFor(p.ID, endpoint)

	if h.InBackoff(s.now()) {
		backoffSkips.WithLabelValues(p.ID).Inc()
		slog.Debug("skipping backed-off endpoint",
			"provider", p.ID,
			"endpoint", endpoint,
			"until", time.Unix(h.BackoffUntil, 0),
		)
		return
	}

	resp, err := s.fetchFn(ctx, p, endpoint)
	switch {
	case err != nil:
		s.onFailure(ctx, p, endpoint, h, 0, err.Error())
	case resp.Status >= 400:
		s.onFailure(ctx, p, endpoint, h, resp.Status, "upstream status")
	default:
		s.onSuccess(ctx, p, endpoint, h, resp)
	}
}

// onSuccess resets the state machine and caches the raw and normalized
// payloads under the same TTL.
func (s *Scheduler) onSuccess(ctx context.Context, p providers.Provider, endpoint string, h *models.ProviderHealth, resp *fetch.Response) {
	now := s.now()

	s.mu.Lock()
	h.ConsecutiveFailures = 0
	h.Status = models.StatusHealthy
	h.BackoffUntil = 0
	h.LastSuccessAt = now
	snapshot := *h
	s.mu.Unlock()

	fetches.WithLabelValues(p.ID, "success").Inc()

	if err := s.store.Set(ctx, storage.RawPayloadKey(p.ID, endpoint), string(resp.Body), s.cfg.CacheTTL); err != nil {
		slog.Error("failed to cache payload", "provider", p.ID, "endpoint", endpoint, "error", err)
	}
	s.cacheNormalized(ctx, p, endpoint, resp.Body)
	if err := s.store.Del(ctx, storage.FailureKey(p.ID, endpoint)); err != nil {
		slog.Warn("failed to clear failure diagnostic", "provider", p.ID, "endpoint", endpoint, "error", err)
	}
	s.persistHealth(ctx, p.ID, endpoint, snapshot)
}

// cacheNormalized maps the payload and caches the canonical records next to
// the raw body. Records carry payload-native sport/league here; the
// aggregator stamps query meta at read time. A payload the mapper rejects
// clears the normalized key so stale records never outlive their raw source.
func (s *Scheduler) cacheNormalized(ctx context.Context, p providers.Provider, endpoint string, body []byte) {
	recs := p.Mapper(body, providers.Meta{})
	if len(recs) == 0 {
		if err := s.store.Del(ctx, storage.NormalizedKey(p.ID, endpoint)); err != nil {
			slog.Warn("failed to clear normalized records", "provider", p.ID, "endpoint", endpoint, "error", err)
		}
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		slog.Error("failed to encode normalized records", "provider", p.ID, "endpoint", endpoint, "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.NormalizedKey(p.ID, endpoint), string(data), s.cfg.CacheTTL); err != nil {
		slog.Error("failed to cache normalized records", "provider", p.ID, "endpoint", endpoint, "error", err)
	}
}

// onFailure escalates the state machine and persists the diagnostic.
// status is 0 for network errors.
func (s *Scheduler) onFailure(ctx context.Context, p providers.Provider, endpoint string, h *models.ProviderHealth, status int, reason string) {
	now := s.now()
	rateLimited := status == 429

	result := "failure"
	if rateLimited {
		result = "ratelimited"
	}
	fetches.WithLabelValues(p.ID, result).Inc()

	var rlCount int64
	if rateLimited {
		n, err := s.store.Incr(ctx, storage.RateLimitKey(p.ID), s.cfg.FailureTTL)
		if err != nil {
			slog.Warn("failed to count rate limit", "provider", p.ID, "error", err)
		} else {
			rlCount = n
		}
	}

	s.mu.Lock()
	h.ConsecutiveFailures++
	h.LastFailureAt = now
	backoff := s.backoffFor(h.ConsecutiveFailures)
	h.BackoffUntil = now.Add(backoff).Unix()

	wasBackoff := h.Status == models.StatusBackoff
	if h.ConsecutiveFailures >= s.cfg.FailureThreshold || (rateLimited && rlCount >= s.cfg.RateLimitTrip) {
		h.Status = models.StatusBackoff
	} else {
		h.Status = models.StatusDegraded
	}
	snapshot := *h
	s.mu.Unlock()

	slog.Warn("provider fetch failed",
		"provider", p.ID,
		"endpoint", endpoint,
		"status", status,
		"reason", reason,
		"consecutive_failures", snapshot.ConsecutiveFailures,
		"state", snapshot.Status,
		"backoff", backoff,
	)

	diag := models.FailureDiag{Status: status, Reason: reason, Timestamp: now}
	if data, err := json.Marshal(diag); err == nil {
		if err := s.store.Set(ctx, storage.FailureKey(p.ID, endpoint), string(data), s.cfg.FailureTTL); err != nil {
			slog.Warn("failed to persist failure diagnostic", "provider", p.ID, "endpoint", endpoint, "error", err)
		}
	}
	s.persistHealth(ctx, p.ID, endpoint, snapshot)

	if !wasBackoff && snapshot.Status == models.StatusBackoff && s.notifier != nil {
		s.notifier.ProviderBackoff(snapshot)
	}
}

// backoffFor is min(maxBackoff, baseBackoff * 2^(failures-1)).
func (s *Scheduler) backoffFor(failures int) time.Duration {
	shift := failures - 1
	if shift > 20 {
		shift = 20 // 2^20 * base already exceeds any sane max
	}
	backoff := s.cfg.BaseBackoff << shift
	if backoff <= 0 || backoff > s.cfg.MaxBackoff {
		return s.cfg.MaxBackoff
	}
	return backoff
}

// healthFor returns the tracked health for a pair, creating it on the first
// attempt. Entries are never deleted, only reset on success.
func (s *Scheduler) healthFor(providerID, endpoint string) *models.ProviderHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := providerID + "|" + endpoint
	h, ok := s.health[key]
	if !ok {
		h = &models.ProviderHealth{
			ProviderID: providerID,
			Endpoint:   endpoint,
			Status:     models.StatusHealthy,
		}
		s.health[key] = h
	}
	return h
}

func (s *Scheduler) persistHealth(ctx context.Context, providerID, endpoint string, h models.ProviderHealth) {
	data, err := json.Marshal(h)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, storage.HealthKey(providerID, endpoint), string(data), 0); err != nil {
		slog.Warn("failed to persist health snapshot", "provider", providerID, "endpoint", endpoint, "error", err)
	}
}
