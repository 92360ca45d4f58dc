package contactmedium

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-onboarding/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const columns = `id::text, customer_id::text, email, mobile_phone, home_phone, fax`

func (r *postgresRepo) Create(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error) {
	const q = `
INSERT INTO contact_mediums (customer_id, email, mobile_phone, home_phone, fax)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	return scan(r.pool.QueryRow(ctx, q, c.CustomerID, c.Email, c.MobilePhone, c.HomePhone, c.Fax))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error) {
	const q = `
UPDATE contact_mediums
SET email = $2, mobile_phone = $3, home_phone = $4, fax = $5, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	return scan(r.pool.QueryRow(ctx, q, c.ID, c.Email, c.MobilePhone, c.HomePhone, c.Fax))
}

func (r *postgresRepo) ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.ContactMedium, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + columns + ` FROM contact_mediums WHERE customer_id::text = ANY($1) ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, q, customerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactMedium
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scan(row pgx.Row) (*domain.ContactMedium, error) {
	var c domain.ContactMedium
	if err := row.Scan(&c.ID, &c.CustomerID, &c.Email, &c.MobilePhone, &c.HomePhone, &c.Fax); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return nil, domain.ErrInvalidReference
			case "22P02":
				return nil, domain.ErrNotFound
			}
		}
		return nil, err
	}
	return &c, nil
}
