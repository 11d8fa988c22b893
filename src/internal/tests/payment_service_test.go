package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/models"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/usecase/services"
)

type paymentRepoStub struct {
	createFn          func(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	getByIDFn         func(ctx context.Context, id string) (domain.Payment, error)
	listByStatusFn    func(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error)
	listByVerifierFn  func(ctx context.Context, staffID string) ([]domain.Payment, error)
	listAllFn         func(ctx context.Context) ([]domain.Payment, error)
	updateIfPendingFn func(ctx context.Context, id string, patch domain.PaymentVerification) (domain.Payment, error)
}

func (s paymentRepoStub) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if s.createFn != nil {
		return s.createFn(ctx, payment)
	}
	return payment, nil
}

func (s paymentRepoStub) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return domain.Payment{}, domain.ErrRecordNotFound
}

func (s paymentRepoStub) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	if s.listByStatusFn != nil {
		return s.listByStatusFn(ctx, status)
	}
	return nil, nil
}

func (s paymentRepoStub) ListByVerifier(ctx context.Context, staffID string) ([]domain.Payment, error) {
	if s.listByVerifierFn != nil {
		return s.listByVerifierFn(ctx, staffID)
	}
	return nil, nil
}

func (s paymentRepoStub) ListAll(ctx context.Context) ([]domain.Payment, error) {
	if s.listAllFn != nil {
		return s.listAllFn(ctx)
	}
	return nil, nil
}

func (s paymentRepoStub) UpdateIfPending(ctx context.Context, id string, patch domain.PaymentVerification) (domain.Payment, error) {
	if s.updateIfPendingFn != nil {
		return s.updateIfPendingFn(ctx, id, patch)
	}
	return domain.Payment{}, domain.ErrAlreadyProcessed
}

func newPaymentService(paymentRepo paymentRepoStub, customerRepo customerRepoStub, t *testing.T, clock func() time.Time) *services.PaymentService {
	t.Helper()
	return services.NewPaymentService(paymentRepo, customerRepo, newTestCipher(t), clock, services.NewNameCache())
}

func validCreateRequest() models.CreatePaymentRequest {
	return models.CreatePaymentRequest{
		Amount:      decimal.NewFromInt(1500),
		Currency:    "USD",
		Provider:    "SWIFT Transfers",
		SwiftCode:   "ABCDUS33",
		CardBrand:   "VISA",
		CardLast4:   "4321",
		ExpiryMonth: 12,
		ExpiryYear:  time.Now().Year() + 1,
	}
}

func TestPaymentServiceCreateValidationError(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{}, customerRepoStub{}, t, nil)

	resp, err := svc.CreatePayment(context.Background(), "cust-1", models.CreatePaymentRequest{}, services.Provenance{})
	if err == nil {
		t.Fatal("expected validation error for empty create request")
	}
	if resp.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", resp.Message)
	}
}

func TestPaymentServiceCreateRejectsZeroAmount(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{}, customerRepoStub{}, t, nil)

	req := validCreateRequest()
	req.Amount = decimal.Zero
	if _, err := svc.CreatePayment(context.Background(), "cust-1", req, services.Provenance{}); err == nil {
		t.Fatal("expected validation error for non-positive amount")
	}
}

func TestPaymentServiceCreateSuccessEncryptsBeforePersist(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{
		createFn: func(_ context.Context, payment domain.Payment) (domain.Payment, error) {
			if payment.Status != domain.PaymentStatusPending {
				t.Fatalf("expected PENDING status on creation, got %q", payment.Status)
			}
			if !strings.HasPrefix(payment.CardToken, "tok_") {
				t.Fatalf("expected opaque card token, got %q", payment.CardToken)
			}
			if payment.CustomerID == "cust-1" || payment.SwiftCode == "ABCDUS33" || payment.CardLast4 == "4321" {
				t.Fatal("expected sensitive fields encrypted before persistence")
			}
			payment.ID = "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73"
			payment.CreatedAt = time.Now().UTC()
			payment.UpdatedAt = payment.CreatedAt
			return payment, nil
		},
	}, customerRepoStub{}, t, nil)

	resp, err := svc.CreatePayment(context.Background(), "cust-1", validCreateRequest(), services.Provenance{IP: "10.0.0.8", UserAgent: "portal-web"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if resp.Data.Status != string(domain.PaymentStatusPending) {
		t.Fatalf("expected PENDING in response, got %q", resp.Data.Status)
	}
	if resp.Data.MaskedCard != "**** **** **** 4321" {
		t.Fatalf("expected masked card, got %q", resp.Data.MaskedCard)
	}
	if resp.Data.SwiftCode != "ABCDUS33" || resp.Data.CustomerID != "cust-1" {
		t.Fatal("expected the caller's own plaintext echoed in the response")
	}
}

func TestPaymentServiceVerifyInvalidAction(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{}, customerRepoStub{}, t, nil)

	_, err := svc.VerifyPayment(context.Background(), "staff-1", models.VerifyPaymentRequest{
		PaymentID: "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73",
		Action:    "MAYBE",
	})
	if err == nil {
		t.Fatal("expected validation error for unsupported action")
	}
}

func TestPaymentServiceVerifyInvalidPaymentID(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{}, customerRepoStub{}, t, nil)

	resp, err := svc.VerifyPayment(context.Background(), "staff-1", models.VerifyPaymentRequest{
		PaymentID: "not-a-uuid",
		Action:    models.VerifyActionAccept,
	})
	if err == nil {
		t.Fatal("expected validation error for malformed payment id")
	}
	if resp.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", resp.Message)
	}
}

func TestPaymentServiceVerifyMalformedRoutingCodeNeverTouchesStore(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{
		updateIfPendingFn: func(context.Context, string, domain.PaymentVerification) (domain.Payment, error) {
			t.Fatal("expected no store update for a malformed routing code")
			return domain.Payment{}, nil
		},
	}, customerRepoStub{}, t, nil)

	resp, err := svc.VerifyPayment(context.Background(), "staff-1", models.VerifyPaymentRequest{
		PaymentID: "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73",
		Action:    models.VerifyActionAccept,
		SwiftCode: "AB-12",
	})
	if err == nil {
		t.Fatal("expected validation error for malformed routing code")
	}
	if resp.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", resp.Message)
	}
}

func TestPaymentServiceVerifyAlreadyProcessed(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{
		updateIfPendingFn: func(context.Context, string, domain.PaymentVerification) (domain.Payment, error) {
			return domain.Payment{}, domain.ErrAlreadyProcessed
		},
	}, customerRepoStub{}, t, nil)

	resp, err := svc.VerifyPayment(context.Background(), "staff-1", models.VerifyPaymentRequest{
		PaymentID: "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73",
		Action:    models.VerifyActionReject,
	})
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if resp.Message != "payment not found or already processed" {
		t.Fatalf("expected indistinguishable not-found message, got %q", resp.Message)
	}
}

func TestPaymentServiceVerifyAcceptSuccess(t *testing.T) {
	verifiedAt := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	clock := func() time.Time { return verifiedAt }

	cipher := newTestCipher(t)
	staffID := "staff-1"

	svc := services.NewPaymentService(paymentRepoStub{
		updateIfPendingFn: func(_ context.Context, id string, patch domain.PaymentVerification) (domain.Payment, error) {
			if id != "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73" {
				t.Fatalf("unexpected payment id %q", id)
			}
			if patch.Status != domain.PaymentStatusAccepted {
				t.Fatalf("expected ACCEPTED patch, got %q", patch.Status)
			}
			if patch.VerifiedBy != staffID {
				t.Fatalf("expected verifier %q, got %q", staffID, patch.VerifiedBy)
			}
			if !patch.VerifiedAt.Equal(verifiedAt) {
				t.Fatalf("expected verification time from the injected clock, got %v", patch.VerifiedAt)
			}
			if !patch.SwiftCodeValidated {
				t.Fatal("expected swift code marked validated when a code is supplied")
			}

			verifiedBy := patch.VerifiedBy
			at := patch.VerifiedAt
			return domain.Payment{
				ID:                 id,
				CustomerID:         mustEncrypt(t, cipher, "cust-1"),
				Amount:             decimal.NewFromInt(1500),
				Currency:           "USD",
				Provider:           mustEncrypt(t, cipher, "SWIFT Transfers"),
				SwiftCode:          mustEncrypt(t, cipher, "ABCDUS33"),
				SwiftCodeValidated: true,
				CardBrand:          domain.CardBrandVisa,
				CardLast4:          mustEncrypt(t, cipher, "4321"),
				Status:             domain.PaymentStatusAccepted,
				VerifiedBy:         &verifiedBy,
				VerifiedAt:         &at,
			}, nil
		},
	}, customerRepoStub{
		getByIDFn: func(_ context.Context, id string) (domain.Customer, error) {
			return domain.Customer{
				ID:        id,
				FirstName: mustEncrypt(t, cipher, "Jane"),
				LastName:  mustEncrypt(t, cipher, "Doe"),
			}, nil
		},
	}, cipher, clock, services.NewNameCache())

	resp, err := svc.VerifyPayment(context.Background(), staffID, models.VerifyPaymentRequest{
		PaymentID: "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73",
		Action:    models.VerifyActionAccept,
		SwiftCode: "ABCD-US-33",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if resp.Message != "payment accepted" {
		t.Fatalf("expected acceptance message, got %q", resp.Message)
	}
	if resp.Data.Status != string(domain.PaymentStatusAccepted) {
		t.Fatalf("expected ACCEPTED status, got %q", resp.Data.Status)
	}
	if resp.Data.CustomerName != "Jane Doe" {
		t.Fatalf("expected resolved customer name, got %q", resp.Data.CustomerName)
	}
	if resp.Data.MaskedCard != "**** **** **** 4321" {
		t.Fatalf("expected masked card, got %q", resp.Data.MaskedCard)
	}
}

func TestPaymentServiceListPendingDegradesCorruptRecords(t *testing.T) {
	cipher := newTestCipher(t)

	// Resolution runs on worker goroutines, so the stub only hands back
	// values prepared on the test goroutine.
	encryptedFirst := mustEncrypt(t, cipher, "Jane")
	encryptedLast := mustEncrypt(t, cipher, "Doe")

	svc := services.NewPaymentService(paymentRepoStub{
		listByStatusFn: func(_ context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
			if status != domain.PaymentStatusPending {
				t.Fatalf("expected PENDING listing, got %q", status)
			}
			return []domain.Payment{
				{
					ID:         "pay-good",
					CustomerID: mustEncrypt(t, cipher, "cust-1"),
					Amount:     decimal.NewFromInt(100),
					Currency:   "USD",
					Provider:   mustEncrypt(t, cipher, "SWIFT Transfers"),
					SwiftCode:  mustEncrypt(t, cipher, "ABCDUS33"),
					CardBrand:  domain.CardBrandVisa,
					CardLast4:  mustEncrypt(t, cipher, "4321"),
					Status:     domain.PaymentStatusPending,
				},
				{
					ID:         "pay-corrupt",
					CustomerID: "garbled-ciphertext",
					Amount:     decimal.NewFromInt(200),
					Currency:   "EUR",
					Provider:   "also-garbled",
					SwiftCode:  mustEncrypt(t, cipher, "EFGHDE55"),
					CardBrand:  domain.CardBrandMastercard,
					CardLast4:  "garbled-too",
					Status:     domain.PaymentStatusPending,
				},
			}, nil
		},
	}, customerRepoStub{
		getByIDFn: func(_ context.Context, id string) (domain.Customer, error) {
			if id != "cust-1" {
				return domain.Customer{}, domain.ErrRecordNotFound
			}
			return domain.Customer{
				ID:        id,
				FirstName: encryptedFirst,
				LastName:  encryptedLast,
			}, nil
		},
	}, cipher, nil, services.NewNameCache())

	resp, err := svc.ListPendingPayments(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil || len(*resp.Data) != 2 {
		t.Fatal("expected both records in the listing")
	}

	listed := *resp.Data
	if listed[0].CustomerName != "Jane Doe" {
		t.Fatalf("expected resolved name for intact record, got %q", listed[0].CustomerName)
	}
	if listed[1].CustomerName != "Unknown Customer" {
		t.Fatalf("expected fallback name for corrupt record, got %q", listed[1].CustomerName)
	}
	if listed[1].Provider != "<unavailable>" || listed[1].MaskedCard != "<unavailable>" {
		t.Fatal("expected fallback markers for undecryptable fields")
	}
}

func TestPaymentServiceListCustomerPaymentsFiltersOwnership(t *testing.T) {
	cipher := newTestCipher(t)

	svc := services.NewPaymentService(paymentRepoStub{
		listAllFn: func(context.Context) ([]domain.Payment, error) {
			return []domain.Payment{
				{
					ID:         "pay-mine",
					CustomerID: mustEncrypt(t, cipher, "cust-1"),
					Amount:     decimal.NewFromInt(100),
					Currency:   "USD",
					Provider:   mustEncrypt(t, cipher, "SWIFT Transfers"),
					SwiftCode:  mustEncrypt(t, cipher, "ABCDUS33"),
					CardLast4:  mustEncrypt(t, cipher, "4321"),
					Status:     domain.PaymentStatusPending,
				},
				{
					ID:         "pay-theirs",
					CustomerID: mustEncrypt(t, cipher, "cust-2"),
					Amount:     decimal.NewFromInt(999),
					Currency:   "GBP",
					Provider:   mustEncrypt(t, cipher, "SWIFT Transfers"),
					SwiftCode:  mustEncrypt(t, cipher, "EFGHGB22"),
					CardLast4:  mustEncrypt(t, cipher, "9999"),
					Status:     domain.PaymentStatusPending,
				},
			}, nil
		},
	}, customerRepoStub{}, cipher, nil, services.NewNameCache())

	resp, err := svc.ListCustomerPayments(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil || len(*resp.Data) != 1 {
		t.Fatal("expected exactly the caller's own payment")
	}
	if (*resp.Data)[0].ID != "pay-mine" {
		t.Fatalf("expected pay-mine, got %q", (*resp.Data)[0].ID)
	}
}

func TestPaymentServiceGetPaymentHidesForeignRecords(t *testing.T) {
	cipher := newTestCipher(t)

	svc := services.NewPaymentService(paymentRepoStub{
		getByIDFn: func(_ context.Context, id string) (domain.Payment, error) {
			return domain.Payment{
				ID:         id,
				CustomerID: mustEncrypt(t, cipher, "cust-2"),
				Amount:     decimal.NewFromInt(100),
				Status:     domain.PaymentStatusPending,
			}, nil
		},
	}, customerRepoStub{}, cipher, nil, services.NewNameCache())

	resp, err := svc.GetPayment(context.Background(), "cust-1", "33ec4b4c-98a8-4d59-b0a4-18bbbb9c6e73")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for foreign payment, got %v", err)
	}
	if resp.Message != "payment not found" {
		t.Fatalf("expected not-found message, got %q", resp.Message)
	}
}

func TestPaymentServiceListProcessedRequiresStaffID(t *testing.T) {
	svc := newPaymentService(paymentRepoStub{}, customerRepoStub{}, t, nil)

	if _, err := svc.ListProcessedPayments(context.Background(), "  "); err == nil {
		t.Fatal("expected validation error for missing staff id")
	}
}
