package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, customer_id, amount, currency, provider, swift_code, swift_code_validated, card_brand, card_last4, card_token, expiry_month, expiry_year, status, verified_by, verified_at, comment, created_by_ip, user_agent, created_at, updated_at`

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	logger.Info("payment repository create", logger.Fields{
		"currency": payment.Currency,
		"status":   payment.Status,
	})

	const query = `
INSERT INTO payments (
	customer_id,
	amount,
	currency,
	provider,
	swift_code,
	swift_code_validated,
	card_brand,
	card_last4,
	card_token,
	expiry_month,
	expiry_year,
	status,
	created_by_ip,
	user_agent
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
)
RETURNING ` + paymentColumns

	var created domain.Payment
	if err := scanPayment(r.db.QueryRowContext(
		ctx,
		query,
		payment.CustomerID,
		payment.Amount,
		payment.Currency,
		payment.Provider,
		payment.SwiftCode,
		payment.SwiftCodeValidated,
		payment.CardBrand,
		payment.CardLast4,
		payment.CardToken,
		payment.ExpiryMonth,
		payment.ExpiryYear,
		payment.Status,
		payment.CreatedByIP,
		payment.UserAgent,
	), &created); err != nil {
		logger.Error("payment repository create failed", err, nil)
		return domain.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	logger.Info("payment repository create success", logger.Fields{
		"paymentId": created.ID,
	})

	return created, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
WHERE id = $1`

	var payment domain.Payment
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), &payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Payment{}, domain.ErrRecordNotFound
		}
		return domain.Payment{}, fmt.Errorf("get payment by id: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
WHERE status = $1
ORDER BY created_at`

	return r.list(ctx, query, string(status))
}

func (r *PaymentRepository) ListByVerifier(ctx context.Context, staffID string) ([]domain.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
WHERE verified_by = $1
ORDER BY verified_at DESC`

	return r.list(ctx, query, staffID)
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]domain.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
ORDER BY created_at DESC`

	return r.list(ctx, query)
}

// UpdateIfPending is the single atomic transition out of PENDING. The
// status predicate lives in the UPDATE itself so concurrent verifiers on
// different instances cannot both win; the loser sees no matched row.
func (r *PaymentRepository) UpdateIfPending(ctx context.Context, id string, patch domain.PaymentVerification) (domain.Payment, error) {
	logger.Info("payment repository conditional update", logger.Fields{
		"paymentId": id,
		"status":    patch.Status,
	})

	const query = `
UPDATE payments
SET status = $2,
    verified_by = $3,
    verified_at = $4,
    swift_code_validated = $5,
    comment = $6,
    updated_at = NOW()
WHERE id = $1 AND status = 'PENDING'
RETURNING ` + paymentColumns

	var updated domain.Payment
	if err := scanPayment(r.db.QueryRowContext(
		ctx,
		query,
		id,
		patch.Status,
		patch.VerifiedBy,
		patch.VerifiedAt,
		patch.SwiftCodeValidated,
		patch.Comment,
	), &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("payment repository no pending row matched", logger.Fields{
				"paymentId": id,
			})
			return domain.Payment{}, domain.ErrAlreadyProcessed
		}
		logger.Error("payment repository conditional update failed", err, logger.Fields{
			"paymentId": id,
		})
		return domain.Payment{}, fmt.Errorf("update pending payment: %w", err)
	}

	logger.Info("payment repository conditional update success", logger.Fields{
		"paymentId": updated.ID,
		"status":    updated.Status,
	})

	return updated, nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var all []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := scanPayment(rows, &payment); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		all = append(all, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return all, nil
}

func scanPayment(row rowScanner, payment *domain.Payment) error {
	var (
		verifiedBy sql.NullString
		verifiedAt sql.NullTime
		comment    sql.NullString
	)

	if err := row.Scan(
		&payment.ID,
		&payment.CustomerID,
		&payment.Amount,
		&payment.Currency,
		&payment.Provider,
		&payment.SwiftCode,
		&payment.SwiftCodeValidated,
		&payment.CardBrand,
		&payment.CardLast4,
		&payment.CardToken,
		&payment.ExpiryMonth,
		&payment.ExpiryYear,
		&payment.Status,
		&verifiedBy,
		&verifiedAt,
		&comment,
		&payment.CreatedByIP,
		&payment.UserAgent,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return err
	}

	if verifiedBy.Valid {
		value := verifiedBy.String
		payment.VerifiedBy = &value
	}
	if verifiedAt.Valid {
		value := verifiedAt.Time
		payment.VerifiedAt = &value
	}
	if comment.Valid {
		value := comment.String
		payment.Comment = &value
	}

	return nil
}
