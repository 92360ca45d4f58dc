package seed

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/onboarding"
	"customer-onboarding/internal/validation"
)

type recordingSeeder struct {
	cities []domain.City
}

func (r *recordingSeeder) Seed(_ context.Context, cities []domain.City) error {
	r.cities = append(r.cities, cities...)
	return nil
}

func TestApplySeedsEveryProvince(t *testing.T) {
	seeder := &recordingSeeder{}
	if err := Apply(context.Background(), seeder); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(seeder.cities) != 81 {
		t.Fatalf("expected 81 cities, got %d", len(seeder.cities))
	}
	if seeder.cities[33].ID != "34" || seeder.cities[33].Name != "Istanbul" {
		t.Fatalf("unexpected plate code mapping: %+v", seeder.cities[33])
	}
}

func TestNationalIDIsValid(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		if id := NationalID(f); !validation.ValidNationalID(id) {
			t.Fatalf("generated invalid national id %q", id)
		}
	}
}

type countingGateway struct {
	mu        sync.Mutex
	customers int
	defaults  map[string]int
	n         int
}

func (g *countingGateway) next(prefix string) string {
	g.n++
	return prefix + "-" + strconv.Itoa(g.n)
}

func (g *countingGateway) CreateCustomer(context.Context, domain.Customer) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.customers++
	return g.next("cust"), nil
}

func (g *countingGateway) UpdateCustomer(context.Context, string, domain.Customer) error { return nil }
func (g *countingGateway) DeleteCustomer(context.Context, string) error                  { return nil }

func (g *countingGateway) ListCustomers(context.Context, domain.CustomerFilter) ([]domain.CustomerRecord, error) {
	return nil, nil
}

func (g *countingGateway) CreateAddress(_ context.Context, a domain.Address) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if a.IsDefault {
		g.defaults[a.CustomerID]++
	}
	return g.next("addr"), nil
}

func (g *countingGateway) UpdateAddress(context.Context, string, domain.Address) error { return nil }
func (g *countingGateway) DeleteAddress(context.Context, string) error                 { return nil }

func (g *countingGateway) CreateContactMedium(context.Context, domain.ContactMedium) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next("cm"), nil
}

func (g *countingGateway) UpdateContactMedium(context.Context, string, domain.ContactMedium) error {
	return nil
}

func (g *countingGateway) ListCities(context.Context) ([]domain.City, error) { return Cities(), nil }

func TestDemoCreatesCustomersWithOneDefault(t *testing.T) {
	gw := &countingGateway{defaults: map[string]int{}}
	cities := onboarding.NewCityDirectory(gw)
	newCreator := func() *onboarding.Creator {
		return onboarding.NewCreator(onboarding.Deps{Gateway: gw, Cities: cities}, onboarding.CreatorConfig{})
	}

	n, err := Demo(context.Background(), newCreator, 10, 1, nil)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if n != 10 || gw.customers != 10 {
		t.Fatalf("expected 10 customers, got %d (%d calls)", n, gw.customers)
	}
	if len(gw.defaults) != 10 {
		t.Fatalf("expected a default address for every customer, got %d", len(gw.defaults))
	}
	for id, count := range gw.defaults {
		if count != 1 {
			t.Fatalf("customer %s has %d default addresses", id, count)
		}
	}
}
