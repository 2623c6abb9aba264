// Package catalog binds provider ids from the config file to their mapper
// implementations and builds the registry. New providers are added here and
// nowhere else.
package catalog

import (
	"fmt"

	"github.com/Vodeneev/fairline/internal/providers"
	"github.com/Vodeneev/fairline/internal/providers/footballdata"
	"github.com/Vodeneev/fairline/internal/providers/leon"
	"github.com/Vodeneev/fairline/internal/providers/oddsapi"
	"github.com/Vodeneev/fairline/internal/providers/sportsdb"

	"github.com/Vodeneev/fairline/internal/pkg/config"
)

var mappers = map[string]providers.MapperFunc{
	"oddsapi":      oddsapi.Map,
	"leon":         leon.Map,
	"footballdata": footballdata.Map,
	"sportsdb":     sportsdb.Map,
}

// AvailableIDs lists provider ids that have a mapper.
func AvailableIDs() []string {
	ids := make([]string, 0, len(mappers))
	for id := range mappers {
		ids = append(ids, id)
	}
	return ids
}

// Build turns the config section into a validated registry.
func Build(cfgs []config.ProviderConfig) (*providers.Registry, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	ps := make([]providers.Provider, 0, len(cfgs))
	for _, c := range cfgs {
		mapper, ok := mappers[c.ID]
		if !ok {
			return nil, fmt.Errorf("unknown provider id %q (available: %v)", c.ID, AvailableIDs())
		}
		method, err := parseAuthMethod(c.AuthMethod)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", c.ID, err)
		}
		ps = append(ps, providers.Provider{
			ID:          c.ID,
			Host:        c.Host,
			AuthMethod:  method,
			AuthParam:   c.AuthParam,
			KeyEnvVar:   c.KeyEnvVar,
			Endpoints:   c.Endpoints,
			FixtureOnly: c.FixtureOnly,
			Mapper:      mapper,
		})
	}
	return providers.NewRegistry(ps...)
}

func parseAuthMethod(s string) (providers.AuthMethod, error) {
	switch s {
	case "query":
		return providers.AuthQuery, nil
	case "header":
		return providers.AuthHeader, nil
	case "", "none":
		return providers.AuthNone, nil
	}
	return "", fmt.Errorf("unknown auth method %q", s)
}
