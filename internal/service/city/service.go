package city

import (
	"context"
	"fmt"

	"customer-onboarding/internal/domain"
	cityrepo "customer-onboarding/internal/repository/city"
)

type Service struct {
	repo cityrepo.Repository
}

func New(repo cityrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns all cities ordered by name. It never returns nil on success.
func (s *Service) List(ctx context.Context) ([]domain.City, error) {
	cities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []domain.City{}
	}
	return cities, nil
}

// Seed upserts the given cities.
func (s *Service) Seed(ctx context.Context, cities []domain.City) error {
	for _, c := range cities {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("city %+v: id and name required", c)
		}
		if err := s.repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert city %s: %w", c.ID, err)
		}
	}
	return nil
}
