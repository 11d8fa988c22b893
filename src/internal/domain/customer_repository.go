package domain

import "context"

type CustomerRepository interface {
	// Create persists a new customer and must surface ErrDuplicateRecord
	// when either digest column collides with an existing row.
	Create(ctx context.Context, customer Customer) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	GetByAccountNumberDigest(ctx context.Context, digest string) (Customer, error)
	ExistsByDigest(ctx context.Context, idNumberDigest string, accountNumberDigest string) (bool, error)
}
