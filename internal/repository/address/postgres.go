package address

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const returning = `
RETURNING id::text, customer_id::text, city_id,
          COALESCE((SELECT name FROM cities WHERE cities.id = addresses.city_id), ''),
          title, street, house_number, description, is_default`

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out *domain.Address
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			const clear = `UPDATE addresses SET is_default = false WHERE customer_id = $1 AND is_default`
			if _, err := tx.Exec(ctx, clear, a.CustomerID); err != nil {
				return err
			}
		}
		const q = `
INSERT INTO addresses (customer_id, city_id, title, street, house_number, description, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7)` + returning
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, q,
			a.CustomerID, a.CityID, a.Title, a.Street, a.HouseNumber, a.Description, a.IsDefault,
		))
		return err
	})
	if err != nil {
		return nil, r.mapError("create", err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out *domain.Address
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			const clear = `
UPDATE addresses SET is_default = false
WHERE customer_id = (SELECT customer_id FROM addresses WHERE id = $1) AND id <> $1 AND is_default`
			if _, err := tx.Exec(ctx, clear, a.ID); err != nil {
				return err
			}
		}
		const q = `
UPDATE addresses
SET city_id = $2, title = $3, street = $4, house_number = $5, description = $6, is_default = $7, updated_at = now()
WHERE id = $1` + returning
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, q,
			a.ID, a.CityID, a.Title, a.Street, a.HouseNumber, a.Description, a.IsDefault,
		))
		return err
	})
	if err != nil {
		return nil, r.mapError("update", err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var customerID string
		var wasDefault bool
		const del = `DELETE FROM addresses WHERE id = $1 RETURNING customer_id::text, is_default`
		if err := tx.QueryRow(ctx, del, id).Scan(&customerID, &wasDefault); err != nil {
			return err
		}
		if !wasDefault {
			return nil
		}
		const promote = `
UPDATE addresses SET is_default = true
WHERE id = (SELECT id FROM addresses WHERE customer_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1)`
		_, err := tx.Exec(ctx, promote, customerID)
		return err
	})
	if err != nil {
		return r.mapError("delete", err)
	}
	return nil
}

func (r *postgresRepo) ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.Address, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT a.id::text, a.customer_id::text, a.city_id, COALESCE(c.name, ''),
       a.title, a.street, a.house_number, a.description, a.is_default
FROM addresses a
LEFT JOIN cities c ON c.id = a.city_id
WHERE a.customer_id::text = ANY($1)
ORDER BY a.created_at ASC, a.id ASC
`
	rows, err := r.pool.Query(ctx, q, customerIDs)
	if err != nil {
		return nil, r.mapError("list", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, r.mapError("list", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(
		&a.ID, &a.CustomerID, &a.CityID, &a.CityName,
		&a.Title, &a.Street, &a.HouseNumber, &a.Description, &a.IsDefault,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepo) mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return domain.ErrInvalidReference
		case "23505":
			return domain.ErrAlreadyExists
		case "22P02":
			return domain.ErrNotFound
		}
	}
	r.logger.Error("address repo: "+op, zap.Error(err))
	return err
}
