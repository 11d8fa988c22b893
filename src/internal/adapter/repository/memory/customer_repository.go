package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/google/uuid"
)

type CustomerRepository struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]domain.Customer)}
}

func (r *CustomerRepository) Create(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.customers {
		if existing.IDNumberDigest == customer.IDNumberDigest ||
			existing.AccountNumberDigest == customer.AccountNumberDigest {
			return domain.Customer{}, domain.ErrDuplicateRecord
		}
	}

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	customer.CreatedAt = time.Now().UTC()

	r.customers[customer.ID] = customer
	return customer, nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrRecordNotFound
	}

	return customer, nil
}

func (r *CustomerRepository) GetByAccountNumberDigest(_ context.Context, digest string) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, customer := range r.customers {
		if customer.AccountNumberDigest == digest {
			return customer, nil
		}
	}

	return domain.Customer{}, domain.ErrRecordNotFound
}

func (r *CustomerRepository) ExistsByDigest(_ context.Context, idNumberDigest string, accountNumberDigest string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, customer := range r.customers {
		if customer.IDNumberDigest == idNumberDigest ||
			customer.AccountNumberDigest == accountNumberDigest {
			return true, nil
		}
	}

	return false, nil
}
