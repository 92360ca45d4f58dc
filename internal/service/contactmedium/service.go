package contactmedium

import (
	"context"
	"errors"
	"strings"

	"customer-onboarding/internal/domain"
	cmrepo "customer-onboarding/internal/repository/contactmedium"
)

// ErrMissingCustomer is returned when a contact medium is created without an owner.
var ErrMissingCustomer = errors.New("customer id required")

type Service struct {
	repo cmrepo.Repository
}

func New(repo cmrepo.Repository) *Service {
	return &Service{repo: repo}
}

func normalize(c domain.ContactMedium) domain.ContactMedium {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.MobilePhone = strings.TrimSpace(c.MobilePhone)
	c.HomePhone = strings.TrimSpace(c.HomePhone)
	c.Fax = strings.TrimSpace(c.Fax)
	return c
}

func (s *Service) Create(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error) {
	c = normalize(c)
	if strings.TrimSpace(c.CustomerID) == "" {
		return nil, ErrMissingCustomer
	}
	c.ID = ""
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, c domain.ContactMedium) (*domain.ContactMedium, error) {
	c = normalize(c)
	c.ID = id
	return s.repo.Update(ctx, c)
}
