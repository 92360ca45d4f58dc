package city

import (
	"context"

	"customer-onboarding/internal/domain"
)

// Repository reads and seeds the city reference list.
type Repository interface {
	List(ctx context.Context) ([]domain.City, error)
	Upsert(ctx context.Context, c domain.City) error
}
