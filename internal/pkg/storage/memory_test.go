package storage

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestMemoryStoreTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = (%q, %v), want (v, true)", v, ok)
	}

	now = now.Add(61 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expired entry must miss")
	}
}

func TestMemoryStoreNoTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v", 0)
	now = now.Add(24 * time.Hour)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Error("zero TTL means no expiry")
	}
}

func TestMemoryStoreIncr(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, err := store.Incr(ctx, "counter", 0)
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Errorf("Incr = %d, want %d", n, want)
		}
	}
}

func TestMemoryStoreIncrTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if n, _ := store.Incr(ctx, "counter", time.Hour); n != 1 {
		t.Fatalf("first Incr = %d, want 1", n)
	}
	now = now.Add(30 * time.Minute)
	if n, _ := store.Incr(ctx, "counter", time.Hour); n != 2 {
		t.Errorf("Incr within TTL = %d, want 2", n)
	}

	// The expiry is set when the key is created, not refreshed per bump.
	now = now.Add(31 * time.Minute)
	if n, _ := store.Incr(ctx, "counter", time.Hour); n != 1 {
		t.Errorf("Incr after expiry = %d, want restart at 1", n)
	}
}

func TestMemoryStoreKeysPattern(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, RawPayloadKey("p1", "/v4/odds"), "{}", 0)
	_ = store.Set(ctx, RawPayloadKey("p1", "/v4/scores"), "{}", 0)
	_ = store.Set(ctx, RawPayloadKey("p2", "/v4/odds"), "{}", 0)
	_ = store.Set(ctx, HealthKey("p1", "/v4/odds"), "{}", 0)

	keys, err := store.Keys(ctx, RawPayloadPattern("p1"))
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	want := []string{"feed:raw:p1:v4_odds", "feed:raw:p1:v4_scores"}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("Keys = %v, want %v", keys, want)
	}

	keys, _ = store.Keys(ctx, HealthPattern())
	if len(keys) != 1 || keys[0] != "provider:health:p1:v4_odds" {
		t.Errorf("health Keys = %v", keys)
	}
}

func TestMemoryStoreDel(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, "a", "1", 0)
	_ = store.Set(ctx, "b", "2", 0)
	if err := store.Del(ctx, "a", "b", "missing"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Error("a should be deleted")
	}
}

func TestEndpointSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/v4/sports/soccer_epl/odds", "v4_sports_soccer_epl_odds"},
		{"/odds?regions=eu&markets=h2h", "odds_regions_eu_markets_h2h"},
		{"/UPPER/Case", "upper_case"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := endpointSlug(tt.in); got != tt.want {
			t.Errorf("endpointSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
