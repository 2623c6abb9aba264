// Package api exposes the read side over HTTP: liveness, provider health,
// aggregated fair odds and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vodeneev/fairline/internal/aggregator"
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
)

type Server struct {
	agg       *aggregator.Aggregator
	store     storage.Store
	snapshots storage.SnapshotStorage // nil when history is disabled
}

func NewServer(agg *aggregator.Aggregator, store storage.Store, snapshots storage.SnapshotStorage) *Server {
	return &Server{agg: agg, store: store, snapshots: snapshots}
}

// Run starts the HTTP server in the background and shuts it down when ctx
// is cancelled. readHeaderTimeout must be positive.
func (s *Server) Run(ctx context.Context, addr string, readHeaderTimeout time.Duration) {
	mux := http.NewServeMux()

	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/odds", s.handleOdds)
	mux.HandleFunc("/history", s.handleHistory)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("API server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// handleHealth reports the persisted circuit state of every
// (provider, endpoint) pair the scheduler has attempted.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.Keys(r.Context(), storage.HealthPattern())
	if err != nil {
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	out := make([]models.ProviderHealth, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := s.store.Get(r.Context(), key)
		if err != nil || !ok {
			continue
		}
		var h models.ProviderHealth
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			slog.Warn("skipping malformed health snapshot", "key", key, "error", err)
			continue
		}
		out = append(out, h)
	}

	writeJSON(w, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"providers": out,
	})
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	q := aggregator.Query{
		Sport:  r.URL.Query().Get("sport"),
		League: r.URL.Query().Get("league"),
	}
	if q.Sport == "" {
		http.Error(w, "sport query parameter is required", http.StatusBadRequest)
		return
	}

	results, err := s.agg.GetUnifiedOddsWithFair(r.Context(), q)
	if err != nil {
		slog.Error("aggregation failed", "sport", q.Sport, "league", q.League, "error", err)
		http.Error(w, "aggregation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"sport":  q.Sport,
		"league": q.League,
		"count":  len(results),
		"events": results,
	})
}

// handleHistory returns the stored line-movement snapshots for one event.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		http.Error(w, "snapshot history is not enabled", http.StatusNotFound)
		return
	}
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		http.Error(w, "event_id query parameter is required", http.StatusBadRequest)
		return
	}

	snaps, err := s.snapshots.LatestForEvent(r.Context(), eventID)
	if err != nil {
		slog.Error("history query failed", "event_id", eventID, "error", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"event_id":  eventID,
		"count":     len(snaps),
		"snapshots": snaps,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
