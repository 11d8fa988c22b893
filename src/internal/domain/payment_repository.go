package domain

import "context"

type PaymentRepository interface {
	Create(ctx context.Context, payment Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	ListByStatus(ctx context.Context, status PaymentStatus) ([]Payment, error)
	// ListByVerifier returns payments verified by the given employee,
	// newest verification first.
	ListByVerifier(ctx context.Context, staffID string) ([]Payment, error)
	// ListAll backs the customer history view. The customer reference is
	// non-deterministic ciphertext, so ownership filtering happens in the
	// service after decryption.
	ListAll(ctx context.Context) ([]Payment, error)

	// UpdateIfPending applies the verification patch only while the row's
	// status is still PENDING, as one atomic conditional update. When no
	// PENDING row matches the id it returns ErrAlreadyProcessed, whether
	// the payment never existed or a concurrent caller won the transition.
	UpdateIfPending(ctx context.Context, id string, patch PaymentVerification) (Payment, error)
}
