package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
)

type StaffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, staff domain.Staff) (domain.Staff, error) {
	const query = `
INSERT INTO staff (
	first_name,
	last_name,
	email,
	credential_hash,
	role
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, first_name, last_name, email, credential_hash, role, created_at`

	var created domain.Staff
	if err := scanStaff(r.db.QueryRowContext(
		ctx,
		query,
		staff.FirstName,
		staff.LastName,
		staff.Email,
		staff.CredentialHash,
		staff.Role,
	), &created); err != nil {
		if isUniqueViolation(err) {
			return domain.Staff{}, domain.ErrDuplicateRecord
		}
		return domain.Staff{}, fmt.Errorf("create staff: %w", err)
	}

	return created, nil
}

func (r *StaffRepository) GetAll(ctx context.Context) ([]domain.Staff, error) {
	const query = `
SELECT id, first_name, last_name, email, credential_hash, role, created_at
FROM staff
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var all []domain.Staff
	for rows.Next() {
		var staff domain.Staff
		if err := scanStaff(rows, &staff); err != nil {
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		all = append(all, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff rows: %w", err)
	}

	return all, nil
}

func (r *StaffRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}

	return count, nil
}

func scanStaff(row rowScanner, staff *domain.Staff) error {
	return row.Scan(
		&staff.ID,
		&staff.FirstName,
		&staff.LastName,
		&staff.Email,
		&staff.CredentialHash,
		&staff.Role,
		&staff.CreatedAt,
	)
}
