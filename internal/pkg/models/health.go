package models

import "time"

// ProviderStatus is the circuit-breaker state of one (provider, endpoint) pair.
type ProviderStatus string

const (
	StatusHealthy  ProviderStatus = "healthy"
	StatusDegraded ProviderStatus = "degraded"
	StatusBackoff  ProviderStatus = "backoff"
)

// ProviderHealth tracks fetch health for one (provider, endpoint) pair.
// Created on the first fetch attempt, mutated only by the scheduler,
// never deleted; a success resets it instead.
type ProviderHealth struct {
	ProviderID          string         `json:"provider_id"`
	Endpoint            string         `json:"endpoint"`
	ConsecutiveFailures int            `json:"consecutive_failures"`
	LastSuccessAt       time.Time      `json:"last_success_at"`
	LastFailureAt       time.Time      `json:"last_failure_at"`
	BackoffUntil        int64          `json:"backoff_until"` // unix seconds, 0 = none
	Status              ProviderStatus `json:"status"`
}

// InBackoff reports whether the pair must be skipped at the given moment.
func (h *ProviderHealth) InBackoff(now time.Time) bool {
	return h.BackoffUntil > 0 && now.Unix() < h.BackoffUntil
}

// FailureDiag is the persisted diagnostic for the last failed fetch of a
// (provider, endpoint) pair. Stored with its own TTL, cleared on success.
type FailureDiag struct {
	Status    int       `json:"status"` // 0 for network errors
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
