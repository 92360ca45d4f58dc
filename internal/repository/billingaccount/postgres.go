package billingaccount

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

const columns = `id::text, customer_id::text, COALESCE(address_id::text, ''), account_number, account_name, type_name, status_name`

// Upsert inserts an account or refreshes the one with the same account number.
func (r *postgresRepo) Upsert(ctx context.Context, a domain.BillingAccount) (*domain.BillingAccount, error) {
	const q = `
INSERT INTO billing_accounts (customer_id, address_id, account_number, account_name, type_name, status_name)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6)
ON CONFLICT (account_number) DO UPDATE
SET customer_id = EXCLUDED.customer_id,
    address_id = EXCLUDED.address_id,
    account_name = EXCLUDED.account_name,
    type_name = EXCLUDED.type_name,
    status_name = EXCLUDED.status_name,
    updated_at = now()
RETURNING ` + columns
	return scan(r.pool.QueryRow(ctx, q, a.CustomerID, a.AddressID, a.AccountNumber, a.AccountName, a.TypeName, a.StatusName))
}

func (r *postgresRepo) ListByCustomers(ctx context.Context, customerIDs []string) ([]domain.BillingAccount, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + columns + ` FROM billing_accounts WHERE customer_id::text = ANY($1) ORDER BY created_at ASC, account_number ASC`
	rows, err := r.pool.Query(ctx, q, customerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BillingAccount
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scan(row pgx.Row) (*domain.BillingAccount, error) {
	var a domain.BillingAccount
	err := row.Scan(&a.ID, &a.CustomerID, &a.AddressID, &a.AccountNumber, &a.AccountName, &a.TypeName, &a.StatusName)
	if err != nil {
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
	return &a, nil
}
