package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vodeneev/fairline/internal/aggregator"
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
	"github.com/Vodeneev/fairline/internal/providers"
)

func testServer(t *testing.T) (*Server, storage.Store) {
	t.Helper()
	reg, err := providers.NewRegistry(providers.Provider{
		ID:        "p1",
		Host:      "https://a.example",
		Endpoints: []string{"/odds"},
		Mapper: func(_ []byte, meta providers.Meta) []models.OddsRecord {
			return []models.OddsRecord{{
				Provider: "p1", Sport: meta.Sport, League: meta.League,
				EventID: "ev1", HomeTeam: "A", AwayTeam: "B", Bookmaker: "alpha",
				Markets: models.Markets{Moneyline: models.Moneyline{
					Home: models.Float(-110), Away: models.Float(-110),
				}},
			}}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewMemoryStore()
	return NewServer(aggregator.New(reg, store, false), store, nil), store
}

func TestHandlePing(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.handlePing(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Code != 200 || rec.Body.String() != "pong" {
		t.Errorf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleOdds(t *testing.T) {
	s, store := testServer(t)
	_ = store.Set(context.Background(), storage.RawPayloadKey("p1", "/odds"), "{}", time.Minute)

	rec := httptest.NewRecorder()
	s.handleOdds(rec, httptest.NewRequest("GET", "/odds?sport=soccer&league=epl", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Sport  string                   `json:"sport"`
		Count  int                      `json:"count"`
		Events []models.ConsensusResult `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Sport != "soccer" || out.Count != 1 || len(out.Events) != 1 {
		t.Errorf("response = %+v", out)
	}
	if out.Events[0].FairHomeProb == nil {
		t.Error("expected fair price in response")
	}
}

func TestHandleOddsRequiresSport(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.handleOdds(rec, httptest.NewRequest("GET", "/odds", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s, store := testServer(t)

	h := models.ProviderHealth{ProviderID: "p1", Endpoint: "/odds", Status: models.StatusBackoff, ConsecutiveFailures: 4}
	data, _ := json.Marshal(h)
	_ = store.Set(context.Background(), storage.HealthKey("p1", "/odds"), string(data), 0)
	// Malformed snapshots are skipped, not fatal.
	_ = store.Set(context.Background(), storage.HealthKey("p2", "/odds"), "not json", 0)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	var out struct {
		Status    string                  `json:"status"`
		Providers []models.ProviderHealth `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "ok" {
		t.Errorf("status = %q", out.Status)
	}
	if len(out.Providers) != 1 {
		t.Fatalf("providers = %+v, want the one valid snapshot", out.Providers)
	}
	if out.Providers[0].Status != models.StatusBackoff || out.Providers[0].ConsecutiveFailures != 4 {
		t.Errorf("provider = %+v", out.Providers[0])
	}
}

func TestHandleHistoryDisabled(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.handleHistory(rec, httptest.NewRequest("GET", "/history?event_id=ev1", nil))
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404 without snapshot storage", rec.Code)
	}
}
