package domain

import "context"

type StaffRepository interface {
	Create(ctx context.Context, staff Staff) (Staff, error)
	// GetAll exists because staff email is non-deterministic ciphertext:
	// login has to decrypt-and-compare across the whole table.
	GetAll(ctx context.Context) ([]Staff, error)
	Count(ctx context.Context) (int, error)
}
