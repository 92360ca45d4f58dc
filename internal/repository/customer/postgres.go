package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const customerColumns = `id::text, customer_number, first_name, middle_name, last_name, gender,
       to_char(birth_date, 'YYYY-MM-DD'), mother_name, father_name, national_id, created_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (first_name, middle_name, last_name, gender, birth_date, mother_name, father_name, national_id)
VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q,
		c.FirstName, c.MiddleName, c.LastName, c.Gender, c.BirthDate, c.MotherName, c.FatherName, c.NationalID,
	))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
UPDATE customers
SET first_name = $2, middle_name = $3, last_name = $4, gender = $5, birth_date = $6::date,
    mother_name = $7, father_name = $8, national_id = $9, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q,
		c.ID, c.FirstName, c.MiddleName, c.LastName, c.Gender, c.BirthDate, c.MotherName, c.FatherName, c.NationalID,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context, f domain.CustomerFilter, limit int) ([]domain.Customer, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v string) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ID != "" {
		add("id::text = $%d", f.ID)
	}
	if f.CustomerNumber != "" {
		add("customer_number = $%d", f.CustomerNumber)
	}
	if f.NationalID != "" {
		add("national_id = $%d", f.NationalID)
	}
	if f.GSMNumber != "" {
		add("EXISTS (SELECT 1 FROM contact_mediums cm WHERE cm.customer_id = customers.id AND cm.mobile_phone = $%d)", f.GSMNumber)
	}
	if f.AccountNumber != "" {
		add("EXISTS (SELECT 1 FROM billing_accounts ba WHERE ba.customer_id = customers.id AND ba.account_number = $%d)", f.AccountNumber)
	}
	if f.FirstName != "" {
		add("first_name ILIKE ($%d::text || '%%')", f.FirstName)
	}
	if f.LastName != "" {
		add("last_name ILIKE ($%d::text || '%%')", f.LastName)
	}

	q := `SELECT ` + customerColumns + ` FROM customers`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at ASC, id ASC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("customer repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
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

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.CustomerNumber,
		&c.FirstName,
		&c.MiddleName,
		&c.LastName,
		&c.Gender,
		&c.BirthDate,
		&c.MotherName,
		&c.FatherName,
		&c.NationalID,
		&c.CreatedAt,
	)
	if err != nil {
		mapped := mapError(err)
		if mapped == err {
			r.logger.Error("customer repo: scan", zap.Error(err))
		}
		return nil, mapped
	}
	return &c, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "22P02":
			// malformed uuid
			return domain.ErrNotFound
		}
	}
	return err
}
