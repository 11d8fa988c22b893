package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/google/uuid"
)

// PaymentRepository is a mutex-guarded in-memory implementation of
// domain.PaymentRepository. It honors the same conditional-update contract
// as the postgres implementation, which makes it usable for exercising the
// at-most-one-verification guarantee without a database.
type PaymentRepository struct {
	mu       sync.Mutex
	payments map[string]domain.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]domain.Payment)}
}

func (r *PaymentRepository) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	r.payments[payment.ID] = payment
	return payment, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrRecordNotFound
	}

	return payment, nil
}

func (r *PaymentRepository) ListByStatus(_ context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Payment
	for _, payment := range r.payments {
		if payment.Status == status {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *PaymentRepository) ListByVerifier(_ context.Context, staffID string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Payment
	for _, payment := range r.payments {
		if payment.VerifiedBy != nil && *payment.VerifiedBy == staffID {
			out = append(out, payment)
		}
	}
	// Rows missing a verification timestamp sort last instead of
	// panicking on the dereference.
	sort.Slice(out, func(i, j int) bool {
		switch {
		case out[i].VerifiedAt == nil:
			return false
		case out[j].VerifiedAt == nil:
			return true
		}
		return out[i].VerifiedAt.After(*out[j].VerifiedAt)
	})

	return out, nil
}

func (r *PaymentRepository) ListAll(_ context.Context) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *PaymentRepository) UpdateIfPending(_ context.Context, id string, patch domain.PaymentVerification) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok || payment.Status != domain.PaymentStatusPending {
		return domain.Payment{}, domain.ErrAlreadyProcessed
	}

	verifiedBy := patch.VerifiedBy
	verifiedAt := patch.VerifiedAt
	payment.Status = patch.Status
	payment.VerifiedBy = &verifiedBy
	payment.VerifiedAt = &verifiedAt
	payment.SwiftCodeValidated = patch.SwiftCodeValidated
	payment.Comment = patch.Comment
	payment.UpdatedAt = time.Now().UTC()

	r.payments[id] = payment
	return payment, nil
}
