package billingaccount

import (
	"context"

	"customer-onboarding/internal/domain"
)

// Repository reads billing accounts. The record API never writes them; Upsert exists for seeding.
type Repository interface {
	Upsert(ctx context.Context, a domain.BillingAccount) (*domain.BillingAccount, error)
	ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.BillingAccount, error)
}
