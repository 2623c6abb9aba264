// Package providers defines the upstream provider configuration and the
// mapper contract every provider package implements. The registry is an
// explicit object built once at startup and injected where needed; there is
// no process-global provider state.
package providers

import (
	"fmt"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

// AuthMethod is how the API key is attached to a request.
type AuthMethod string

const (
	AuthQuery  AuthMethod = "query"
	AuthHeader AuthMethod = "header"
	AuthNone   AuthMethod = "none"
)

// Meta carries the sport/league context a payload was fetched for. Mappers
// stamp it onto every record they emit.
type Meta struct {
	Sport  string
	League string
}

// MapperFunc turns one raw upstream payload into canonical records.
// It must never fail: malformed input yields nil, missing non-identity
// fields become nil market pointers.
type MapperFunc func(raw []byte, meta Meta) []models.OddsRecord

// Provider describes one upstream feed.
type Provider struct {
	ID          string
	Host        string     // e.g. "api.the-odds-api.com", scheme optional
	AuthMethod  AuthMethod
	AuthParam   string // query parameter name or header name
	KeyEnvVar   string // env var holding the API key
	Endpoints   []string
	FixtureOnly bool // no price data, used as degraded fallback only
	Mapper      MapperFunc
}

// Registry is the full provider configuration, built once and injected into
// the scheduler and aggregator.
type Registry struct {
	all  []Provider
	byID map[string]Provider
}

// NewRegistry validates the providers and builds the registry.
func NewRegistry(ps ...Provider) (*Registry, error) {
	r := &Registry{byID: make(map[string]Provider, len(ps))}
	for _, p := range ps {
		if p.ID == "" {
			return nil, fmt.Errorf("provider with empty id")
		}
		if p.Host == "" {
			return nil, fmt.Errorf("provider %s: host is required", p.ID)
		}
		if p.Mapper == nil {
			return nil, fmt.Errorf("provider %s: mapper is required", p.ID)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %s", p.ID)
		}
		r.all = append(r.all, p)
		r.byID[p.ID] = p
	}
	return r, nil
}

// All returns every configured provider in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.all))
	copy(out, r.all)
	return out
}

// Priced returns providers that quote prices.
func (r *Registry) Priced() []Provider {
	var out []Provider
	for _, p := range r.all {
		if !p.FixtureOnly {
			out = append(out, p)
		}
	}
	return out
}

// FixtureOnly returns providers that only carry fixture data.
func (r *Registry) FixtureOnly() []Provider {
	var out []Provider
	for _, p := range r.all {
		if p.FixtureOnly {
			out = append(out, p)
		}
	}
	return out
}

// ByID looks a provider up by id.
func (r *Registry) ByID(id string) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}
