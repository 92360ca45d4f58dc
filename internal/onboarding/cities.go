package onboarding

import (
	"context"
	"sync"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
)

// CityDirectory is a read-through cache of the city list. A successful fetch is kept
// for the lifetime of the directory; failures are not cached.
type CityDirectory struct {
	gw gateway.RecordGateway

	mu     sync.Mutex
	loaded bool
	cities []domain.City
}

func NewCityDirectory(gw gateway.RecordGateway) *CityDirectory {
	return &CityDirectory{gw: gw}
}

// List returns all cities, fetching them on first use.
func (d *CityDirectory) List(ctx context.Context) ([]domain.City, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return append([]domain.City(nil), d.cities...), nil
	}
	cities, err := d.gw.ListCities(ctx)
	if err != nil {
		return nil, &RemoteError{Op: gateway.OpListCities, Cause: err}
	}
	d.cities = cities
	d.loaded = true
	return append([]domain.City(nil), cities...), nil
}

// Name resolves a city id to its display name, or "" when unknown.
func (d *CityDirectory) Name(ctx context.Context, id string) string {
	if d == nil || id == "" {
		return ""
	}
	cities, err := d.List(ctx)
	if err != nil {
		return ""
	}
	return CityName(cities, id)
}

// CityName is the pure projection used for display.
func CityName(cities []domain.City, id string) string {
	for _, c := range cities {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
