package address

import (
	"context"

	"customer-onboarding/internal/domain"
)

// Repository persists customer addresses. Writes that mark an address default clear the
// flag on the customer's other addresses in the same transaction.
type Repository interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, a domain.Address) (*domain.Address, error)
	// Delete removes an address and promotes the oldest remaining one when the
	// default was removed.
	Delete(ctx context.Context, id string) error
	ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.Address, error)
}
