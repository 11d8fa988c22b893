package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/repository/memory"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
)

func TestPaymentRepositoryUpdateIfPendingSingleWinner(t *testing.T) {
	repo := memory.NewPaymentRepository()

	created, err := repo.Create(context.Background(), domain.Payment{
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
		Status:   domain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const verifiers = 16

	type outcome struct {
		status domain.PaymentStatus
		err    error
	}

	results := make([]outcome, verifiers)
	var wg sync.WaitGroup
	for i := 0; i < verifiers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			status := domain.PaymentStatusAccepted
			if i%2 == 1 {
				status = domain.PaymentStatusRejected
			}
			updated, err := repo.UpdateIfPending(context.Background(), created.ID, domain.PaymentVerification{
				Status:     status,
				VerifiedBy: fmt.Sprintf("staff-%d", i),
				VerifiedAt: time.Now().UTC(),
			})
			results[i] = outcome{status: updated.Status, err: err}
		}(i)
	}
	wg.Wait()

	var winners int
	var winnerStatus domain.PaymentStatus
	for i, result := range results {
		switch {
		case result.err == nil:
			winners++
			winnerStatus = result.status
		case errors.Is(result.err, domain.ErrAlreadyProcessed):
		default:
			t.Fatalf("verifier %d: unexpected error %v", i, result.err)
		}
	}

	if winners != 1 {
		t.Fatalf("expected exactly one winning verification, got %d", winners)
	}

	final, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get final state: %v", err)
	}
	if final.Status != winnerStatus {
		t.Fatalf("expected final status %q from the winner, got %q", winnerStatus, final.Status)
	}
	if final.VerifiedBy == nil || final.VerifiedAt == nil {
		t.Fatal("expected verifier audit fields on the processed payment")
	}
}

func TestPaymentRepositoryUpdateIfPendingTerminalStates(t *testing.T) {
	repo := memory.NewPaymentRepository()

	created, err := repo.Create(context.Background(), domain.Payment{
		Amount:   decimal.NewFromInt(50),
		Currency: "EUR",
		Status:   domain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := repo.UpdateIfPending(context.Background(), created.ID, domain.PaymentVerification{
		Status:     domain.PaymentStatusRejected,
		VerifiedBy: "staff-1",
		VerifiedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first verification: %v", err)
	}
	if first.Status != domain.PaymentStatusRejected {
		t.Fatalf("expected REJECTED, got %q", first.Status)
	}

	if _, err := repo.UpdateIfPending(context.Background(), created.ID, domain.PaymentVerification{
		Status:     domain.PaymentStatusAccepted,
		VerifiedBy: "staff-2",
		VerifiedAt: time.Now().UTC(),
	}); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed for processed payment, got %v", err)
	}

	final, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get final state: %v", err)
	}
	if final.Status != domain.PaymentStatusRejected {
		t.Fatalf("expected status unchanged after losing attempt, got %q", final.Status)
	}
	if final.VerifiedBy == nil || *final.VerifiedBy != "staff-1" {
		t.Fatal("expected the first verifier preserved on the record")
	}
}

func TestPaymentRepositoryListByVerifierToleratesMissingTimestamp(t *testing.T) {
	repo := memory.NewPaymentRepository()

	verifier := "staff-1"

	// A row can carry a verifier without a timestamp when seeded
	// directly; listing must not dereference the nil time.
	if _, err := repo.Create(context.Background(), domain.Payment{
		Amount:     decimal.NewFromInt(10),
		Currency:   "USD",
		Status:     domain.PaymentStatusAccepted,
		VerifiedBy: &verifier,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	created, err := repo.Create(context.Background(), domain.Payment{
		Amount:   decimal.NewFromInt(20),
		Currency: "USD",
		Status:   domain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.UpdateIfPending(context.Background(), created.ID, domain.PaymentVerification{
		Status:     domain.PaymentStatusAccepted,
		VerifiedBy: verifier,
		VerifiedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	listed, err := repo.ListByVerifier(context.Background(), verifier)
	if err != nil {
		t.Fatalf("list by verifier: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected both rows, got %d", len(listed))
	}
	if listed[0].VerifiedAt == nil {
		t.Fatal("expected the timestamped row first")
	}
	if listed[1].VerifiedAt != nil {
		t.Fatal("expected the timestampless row last")
	}
}

func TestPaymentRepositoryUpdateIfPendingUnknownID(t *testing.T) {
	repo := memory.NewPaymentRepository()

	if _, err := repo.UpdateIfPending(context.Background(), "missing-id", domain.PaymentVerification{
		Status:     domain.PaymentStatusAccepted,
		VerifiedBy: "staff-1",
		VerifiedAt: time.Now().UTC(),
	}); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed for unknown id, got %v", err)
	}
}
