package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/repository/memory"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
)

func TestStaffRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	repo := memory.NewStaffRepository()

	created, err := repo.Create(context.Background(), domain.Staff{
		FirstName:      "Samantha",
		LastName:       "Jones",
		Email:          "ciphertext-email-1",
		CredentialHash: "hash-1",
		Role:           domain.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated staff id")
	}

	if _, err := repo.Create(context.Background(), domain.Staff{
		Email: "ciphertext-email-1",
	}); !errors.Is(err, domain.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord for reused email, got %v", err)
	}
}

func TestStaffRepositoryGetAllAndCount(t *testing.T) {
	repo := memory.NewStaffRepository()

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty repository, got %d", count)
	}

	for _, email := range []string{"ciphertext-email-1", "ciphertext-email-2"} {
		if _, err := repo.Create(context.Background(), domain.Staff{Email: email}); err != nil {
			t.Fatalf("create %q: %v", email, err)
		}
	}

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both staff rows, got %d", len(all))
	}

	seen := make(map[string]bool, len(all))
	for _, staff := range all {
		seen[staff.Email] = true
	}
	if !seen["ciphertext-email-1"] || !seen["ciphertext-email-2"] {
		t.Fatal("expected both stored emails in the listing")
	}

	count, err = repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}
