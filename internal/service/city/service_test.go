package city

import (
	"context"
	"testing"

	"customer-onboarding/internal/domain"
)

type memoryRepo struct {
	byID map[string]string
}

func (r *memoryRepo) List(context.Context) ([]domain.City, error) {
	if len(r.byID) == 0 {
		return nil, nil
	}
	var out []domain.City
	for id, name := range r.byID {
		out = append(out, domain.City{ID: id, Name: name})
	}
	return out, nil
}

func (r *memoryRepo) Upsert(_ context.Context, c domain.City) error {
	r.byID[c.ID] = c.Name
	return nil
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc := New(&memoryRepo{byID: map[string]string{}})
	cities, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if cities == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestSeed_Upserts(t *testing.T) {
	repo := &memoryRepo{byID: map[string]string{"34": "Old"}}
	svc := New(repo)

	if err := svc.Seed(context.Background(), []domain.City{{ID: "34", Name: "Istanbul"}, {ID: "6", Name: "Ankara"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if repo.byID["34"] != "Istanbul" || repo.byID["6"] != "Ankara" {
		t.Fatalf("unexpected cities %+v", repo.byID)
	}
	if err := svc.Seed(context.Background(), []domain.City{{ID: "1"}}); err == nil {
		t.Fatalf("expected error for city without name")
	}
}
