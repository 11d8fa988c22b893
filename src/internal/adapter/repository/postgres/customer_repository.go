package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/lib/pq"
)

type CustomerRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	const query = `
INSERT INTO customers (
	first_name,
	middle_name,
	last_name,
	id_number,
	id_number_digest,
	account_number,
	account_number_digest,
	credential_hash,
	role
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, first_name, middle_name, last_name, id_number, id_number_digest, account_number, account_number_digest, credential_hash, role, created_at`

	var created domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(
		ctx,
		query,
		customer.FirstName,
		customer.MiddleName,
		customer.LastName,
		customer.IDNumber,
		customer.IDNumberDigest,
		customer.AccountNumber,
		customer.AccountNumberDigest,
		customer.CredentialHash,
		customer.Role,
	), &created); err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, domain.ErrDuplicateRecord
		}
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	return created, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	const query = `
SELECT id, first_name, middle_name, last_name, id_number, id_number_digest, account_number, account_number_digest, credential_hash, role, created_at
FROM customers
WHERE id = $1`

	var customer domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, id), &customer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrRecordNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer by id: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) GetByAccountNumberDigest(ctx context.Context, digest string) (domain.Customer, error) {
	const query = `
SELECT id, first_name, middle_name, last_name, id_number, id_number_digest, account_number, account_number_digest, credential_hash, role, created_at
FROM customers
WHERE account_number_digest = $1`

	var customer domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, digest), &customer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrRecordNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer by account digest: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) ExistsByDigest(ctx context.Context, idNumberDigest string, accountNumberDigest string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM customers
	WHERE id_number_digest = $1 OR account_number_digest = $2
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, idNumberDigest, accountNumberDigest).Scan(&exists); err != nil {
		return false, fmt.Errorf("check customer digests: %w", err)
	}

	return exists, nil
}

func scanCustomer(row rowScanner, customer *domain.Customer) error {
	return row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.MiddleName,
		&customer.LastName,
		&customer.IDNumber,
		&customer.IDNumberDigest,
		&customer.AccountNumber,
		&customer.AccountNumberDigest,
		&customer.CredentialHash,
		&customer.Role,
		&customer.CreatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
