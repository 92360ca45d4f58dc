package address

import (
	"context"
	"errors"
	"strings"

	"customer-onboarding/internal/domain"
	addrrepo "customer-onboarding/internal/repository/address"
)

// ErrMissingCustomer is returned when an address is created without an owner.
var ErrMissingCustomer = errors.New("customer id required")

type Service struct {
	repo addrrepo.Repository
}

func New(repo addrrepo.Repository) *Service {
	return &Service{repo: repo}
}

func normalize(a domain.Address) domain.Address {
	a.CityID = strings.TrimSpace(a.CityID)
	a.Title = strings.TrimSpace(a.Title)
	a.Street = strings.TrimSpace(a.Street)
	a.HouseNumber = strings.TrimSpace(a.HouseNumber)
	a.Description = strings.TrimSpace(a.Description)
	a.CityName = ""
	return a
}

// Create stores a new address for its customer.
func (s *Service) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	a = normalize(a)
	if strings.TrimSpace(a.CustomerID) == "" {
		return nil, ErrMissingCustomer
	}
	a.ID = ""
	return s.repo.Create(ctx, a)
}

// Update replaces address id. Marking it default clears the customer's other defaults.
func (s *Service) Update(ctx context.Context, id string, a domain.Address) (*domain.Address, error) {
	a = normalize(a)
	a.ID = id
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
