package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/google/uuid"
)

type StaffRepository struct {
	mu    sync.Mutex
	staff map[string]domain.Staff
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{staff: make(map[string]domain.Staff)}
}

func (r *StaffRepository) Create(_ context.Context, staff domain.Staff) (domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.staff {
		if existing.Email == staff.Email {
			return domain.Staff{}, domain.ErrDuplicateRecord
		}
	}

	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	staff.CreatedAt = time.Now().UTC()

	r.staff[staff.ID] = staff
	return staff, nil
}

func (r *StaffRepository) GetAll(_ context.Context) ([]domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Staff, 0, len(r.staff))
	for _, staff := range r.staff {
		out = append(out, staff)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *StaffRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.staff), nil
}
