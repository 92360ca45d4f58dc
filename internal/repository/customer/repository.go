package customer

import (
	"context"

	"customer-onboarding/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// List returns at most limit customers matching filter, oldest first.
	List(ctx context.Context, filter domain.CustomerFilter, limit int) ([]domain.Customer, error)
}
