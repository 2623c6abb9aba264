package storage

import "strings"

// Cache key convention: <namespace>:<providerOrType>:<discriminator>,
// values JSON-serialized. These builders are the single source of truth for
// key layout; the health snapshots under provider:health:* are a documented
// surface read by external dashboards.

// RawPayloadKey is where the scheduler caches a provider endpoint's raw body.
func RawPayloadKey(providerID, endpoint string) string {
	return "feed:raw:" + providerID + ":" + endpointSlug(endpoint)
}

// RawPayloadPattern matches all cached payloads of one provider.
func RawPayloadPattern(providerID string) string {
	return "feed:raw:" + providerID + ":*"
}

// NormalizedKey is where the scheduler caches the canonical records mapped
// from a provider endpoint's payload, JSON-encoded, same TTL as the raw body.
func NormalizedKey(providerID, endpoint string) string {
	return "feed:norm:" + providerID + ":" + endpointSlug(endpoint)
}

// NormalizedPattern matches all cached normalized records of one provider.
func NormalizedPattern(providerID string) string {
	return "feed:norm:" + providerID + ":*"
}

// FailureKey holds the last failure diagnostic for a (provider, endpoint).
func FailureKey(providerID, endpoint string) string {
	return "feed:fail:" + providerID + ":" + endpointSlug(endpoint)
}

// RateLimitKey counts 429 responses per provider.
func RateLimitKey(providerID string) string {
	return "feed:rl:" + providerID
}

// HealthKey holds the health snapshot for a (provider, endpoint).
func HealthKey(providerID, endpoint string) string {
	return "provider:health:" + providerID + ":" + endpointSlug(endpoint)
}

// HealthPattern matches every persisted health snapshot.
func HealthPattern() string {
	return "provider:health:*"
}

// endpointSlug flattens an endpoint path+query into a key segment so the
// separator characters of the key convention never appear inside a segment.
func endpointSlug(endpoint string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.Trim(endpoint, "/")) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
