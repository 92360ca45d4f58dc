package contactmedium

import (
	"context"

	"customer-onboarding/internal/domain"
)

// Repository persists contact mediums.
type Repository interface {
	Create(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error)
	Update(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error)
	ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.ContactMedium, error)
}
