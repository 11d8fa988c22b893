package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/models"
	"github.com/api-sage/intl-payments-portal/src/internal/commons"
	"github.com/api-sage/intl-payments-portal/src/internal/crypto"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

// Display fallbacks for records whose ciphertext no longer authenticates
// or whose customer reference cannot be resolved. One corrupt record must
// not take down a whole listing.
const unknownCustomer = "Unknown Customer"
const unavailableField = "<unavailable>"

// Bound for the concurrent customer-name resolution in listing paths.
const enrichmentConcurrency = 4

type Provenance struct {
	IP        string
	UserAgent string
}

type PaymentService struct {
	paymentRepo  domain.PaymentRepository
	customerRepo domain.CustomerRepository
	cipher       *crypto.FieldCipher
	clock        func() time.Time
	names        *NameCache
}

func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	customerRepo domain.CustomerRepository,
	cipher *crypto.FieldCipher,
	clock func() time.Time,
	names *NameCache,
) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		cipher:       cipher,
		clock:        clock,
		names:        names,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, customerID string, req models.CreatePaymentRequest, provenance Provenance) (commons.Response[models.PaymentResponse], error) {
	logger.Info("payment service create request", logger.Fields{
		"payload":    logger.SanitizePayload(req),
		"customerId": customerID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("payment service create validation failed", err, nil)
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}
	if strings.TrimSpace(customerID) == "" {
		err := fmt.Errorf("customerId is required")
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}

	payment := domain.Payment{
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		CardBrand:   domain.CardBrand(strings.TrimSpace(req.CardBrand)),
		CardToken:   "tok_" + uuid.NewString(),
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Status:      domain.PaymentStatusPending,
		CreatedByIP: provenance.IP,
		UserAgent:   provenance.UserAgent,
	}

	var err error
	if payment.CustomerID, err = s.cipher.Encrypt(customerID); err != nil {
		return commons.ErrorResponse[models.PaymentResponse]("failed to create payment", "Unable to create payment right now"), fmt.Errorf("encrypt customer reference: %w", err)
	}
	if payment.Provider, err = s.cipher.Encrypt(strings.TrimSpace(req.Provider)); err != nil {
		return commons.ErrorResponse[models.PaymentResponse]("failed to create payment", "Unable to create payment right now"), fmt.Errorf("encrypt provider: %w", err)
	}
	if payment.SwiftCode, err = s.cipher.Encrypt(strings.ToUpper(strings.TrimSpace(req.SwiftCode))); err != nil {
		return commons.ErrorResponse[models.PaymentResponse]("failed to create payment", "Unable to create payment right now"), fmt.Errorf("encrypt swift code: %w", err)
	}
	if payment.CardLast4, err = s.cipher.Encrypt(req.CardLast4); err != nil {
		return commons.ErrorResponse[models.PaymentResponse]("failed to create payment", "Unable to create payment right now"), fmt.Errorf("encrypt card last4: %w", err)
	}

	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		logger.Error("payment service create repository failed", err, nil)
		return commons.ErrorResponse[models.PaymentResponse]("failed to create payment", "Unable to create payment right now"), err
	}

	logger.Info("payment service create success", logger.Fields{
		"paymentId": created.ID,
		"status":    created.Status,
	})

	// Echo the caller's own plaintext back rather than decrypting what
	// was just stored.
	response := models.PaymentResponse{
		ID:          created.ID,
		CustomerID:  customerID,
		Amount:      created.Amount.String(),
		Currency:    created.Currency,
		Provider:    strings.TrimSpace(req.Provider),
		SwiftCode:   strings.ToUpper(strings.TrimSpace(req.SwiftCode)),
		CardBrand:   string(created.CardBrand),
		MaskedCard:  models.MaskLast4(req.CardLast4),
		ExpiryMonth: created.ExpiryMonth,
		ExpiryYear:  created.ExpiryYear,
		Status:      string(created.Status),
		CreatedAt:   created.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   created.UpdatedAt.Format(time.RFC3339),
	}

	return commons.SuccessResponse("payment created successfully", response), nil
}

// VerifyPayment applies the single permitted transition out of PENDING.
// The routing code, when supplied, is canonicalized and checked before the
// store is touched; the transition itself is delegated to the repository's
// conditional update so at most one concurrent verifier wins.
func (s *PaymentService) VerifyPayment(ctx context.Context, staffID string, req models.VerifyPaymentRequest) (commons.Response[models.PaymentResponse], error) {
	logger.Info("payment service verify request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"staffId": staffID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("payment service verify validation failed", err, nil)
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}
	if strings.TrimSpace(staffID) == "" {
		err := fmt.Errorf("staffId is required")
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}
	if _, err := uuid.Parse(strings.TrimSpace(req.PaymentID)); err != nil {
		err = fmt.Errorf("paymentId is not a valid id")
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}

	status := domain.PaymentStatusRejected
	if strings.TrimSpace(req.Action) == models.VerifyActionAccept {
		status = domain.PaymentStatusAccepted
	}

	routingCode := models.NormalizeSwiftCode(req.SwiftCode)

	patch := domain.PaymentVerification{
		Status:             status,
		VerifiedBy:         staffID,
		VerifiedAt:         s.clock().UTC(),
		SwiftCodeValidated: routingCode != "",
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		patch.Comment = &comment
	}

	updated, err := s.paymentRepo.UpdateIfPending(ctx, strings.TrimSpace(req.PaymentID), patch)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyProcessed) {
			logger.Info("payment service verify lost or missing", logger.Fields{
				"paymentId": req.PaymentID,
				"staffId":   staffID,
			})
			return commons.ErrorResponse[models.PaymentResponse]("payment not found or already processed"), err
		}
		logger.Error("payment service verify repository failed", err, logger.Fields{
			"paymentId": req.PaymentID,
		})
		return commons.ErrorResponse[models.PaymentResponse]("failed to verify payment", "Unable to verify payment right now"), err
	}

	logger.Info("payment service verify success", logger.Fields{
		"paymentId": updated.ID,
		"status":    updated.Status,
		"staffId":   staffID,
	})

	response := s.displayPayment(ctx, updated, true)
	return commons.SuccessResponse("payment "+strings.ToLower(string(status)), response), nil
}

// ListPendingPayments returns the verification queue with decrypted display
// fields. Per-record decrypt or customer resolution failures degrade to
// fallback values so the rest of the queue stays visible.
func (s *PaymentService) ListPendingPayments(ctx context.Context) (commons.Response[[]models.PaymentResponse], error) {
	logger.Info("payment service list pending request", nil)

	pending, err := s.paymentRepo.ListByStatus(ctx, domain.PaymentStatusPending)
	if err != nil {
		logger.Error("payment service list pending failed", err, nil)
		return commons.ErrorResponse[[]models.PaymentResponse]("failed to list payments", "Unable to list payments right now"), err
	}

	responses := s.displayPayments(ctx, pending, true)
	return commons.SuccessResponse("pending payments fetched successfully", responses), nil
}

// ListProcessedPayments returns only payments the calling employee verified,
// newest verification first.
func (s *PaymentService) ListProcessedPayments(ctx context.Context, staffID string) (commons.Response[[]models.PaymentResponse], error) {
	logger.Info("payment service list processed request", logger.Fields{
		"staffId": staffID,
	})

	if strings.TrimSpace(staffID) == "" {
		err := fmt.Errorf("staffId is required")
		return commons.ErrorResponse[[]models.PaymentResponse]("validation failed", err.Error()), err
	}

	processed, err := s.paymentRepo.ListByVerifier(ctx, staffID)
	if err != nil {
		logger.Error("payment service list processed failed", err, logger.Fields{
			"staffId": staffID,
		})
		return commons.ErrorResponse[[]models.PaymentResponse]("failed to list payments", "Unable to list payments right now"), err
	}

	responses := s.displayPayments(ctx, processed, true)
	return commons.SuccessResponse("processed payments fetched successfully", responses), nil
}

// ListCustomerPayments is the customer history view. The customer reference
// is non-deterministic ciphertext, so ownership is established by
// decrypting each record's reference and comparing.
func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID string) (commons.Response[[]models.PaymentResponse], error) {
	logger.Info("payment service list history request", logger.Fields{
		"customerId": customerID,
	})

	if strings.TrimSpace(customerID) == "" {
		err := fmt.Errorf("customerId is required")
		return commons.ErrorResponse[[]models.PaymentResponse]("validation failed", err.Error()), err
	}

	all, err := s.paymentRepo.ListAll(ctx)
	if err != nil {
		logger.Error("payment service list history failed", err, nil)
		return commons.ErrorResponse[[]models.PaymentResponse]("failed to list payments", "Unable to list payments right now"), err
	}

	var owned []domain.Payment
	for _, payment := range all {
		owner, err := s.cipher.Decrypt(payment.CustomerID)
		if err != nil {
			logger.Error("payment service history owner decrypt failed", err, logger.Fields{
				"paymentId": payment.ID,
			})
			continue
		}
		if owner == customerID {
			owned = append(owned, payment)
		}
	}

	responses := s.displayPayments(ctx, owned, false)
	return commons.SuccessResponse("payments fetched successfully", responses), nil
}

func (s *PaymentService) GetPayment(ctx context.Context, customerID string, paymentID string) (commons.Response[models.PaymentResponse], error) {
	logger.Info("payment service get request", logger.Fields{
		"paymentId":  paymentID,
		"customerId": customerID,
	})

	if _, err := uuid.Parse(strings.TrimSpace(paymentID)); err != nil {
		err = fmt.Errorf("paymentId is not a valid id")
		return commons.ErrorResponse[models.PaymentResponse]("validation failed", err.Error()), err
	}

	payment, err := s.paymentRepo.GetByID(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.PaymentResponse]("payment not found"), err
		}
		logger.Error("payment service get failed", err, logger.Fields{
			"paymentId": paymentID,
		})
		return commons.ErrorResponse[models.PaymentResponse]("failed to get payment", "Unable to fetch payment right now"), err
	}

	owner, err := s.cipher.Decrypt(payment.CustomerID)
	if err != nil || owner != customerID {
		// Ownership cannot be established; the caller learns only that
		// the payment is not theirs to see.
		return commons.ErrorResponse[models.PaymentResponse]("payment not found"), domain.ErrRecordNotFound
	}

	response := s.displayPayment(ctx, payment, false)
	return commons.SuccessResponse("payment fetched successfully", response), nil
}

// displayPayments decrypts a batch for display, resolving customer names
// concurrently under a small bound. Workers never return an error: each
// failure is already degraded to a fallback inside displayPayment.
func (s *PaymentService) displayPayments(ctx context.Context, payments []domain.Payment, withCustomer bool) []models.PaymentResponse {
	responses := make([]models.PaymentResponse, len(payments))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(enrichmentConcurrency)
	for i := range payments {
		i := i
		group.Go(func() error {
			responses[i] = s.displayPayment(groupCtx, payments[i], withCustomer)
			return nil
		})
	}
	_ = group.Wait()

	return responses
}

func (s *PaymentService) displayPayment(ctx context.Context, payment domain.Payment, withCustomer bool) models.PaymentResponse {
	response := models.PaymentResponse{
		ID:                 payment.ID,
		Amount:             payment.Amount.String(),
		Currency:           payment.Currency,
		Provider:           s.decryptOrFallback(payment.ID, payment.Provider),
		SwiftCode:          s.decryptOrFallback(payment.ID, payment.SwiftCode),
		SwiftCodeValidated: payment.SwiftCodeValidated,
		CardBrand:          string(payment.CardBrand),
		ExpiryMonth:        payment.ExpiryMonth,
		ExpiryYear:         payment.ExpiryYear,
		Status:             string(payment.Status),
		VerifiedBy:         payment.VerifiedBy,
		Comment:            payment.Comment,
		CreatedAt:          payment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          payment.UpdatedAt.Format(time.RFC3339),
	}

	if payment.VerifiedAt != nil {
		formatted := payment.VerifiedAt.Format(time.RFC3339)
		response.VerifiedAt = &formatted
	}

	if last4, err := s.cipher.Decrypt(payment.CardLast4); err == nil {
		response.MaskedCard = models.MaskLast4(last4)
	} else {
		logger.Error("payment service card decrypt failed", err, logger.Fields{
			"paymentId": payment.ID,
		})
		response.MaskedCard = unavailableField
	}

	if withCustomer {
		response.CustomerName = s.resolveCustomerName(ctx, payment)
	}

	return response
}

func (s *PaymentService) decryptOrFallback(paymentID string, ciphertext string) string {
	plaintext, err := s.cipher.Decrypt(ciphertext)
	if err != nil {
		logger.Error("payment service field decrypt failed", err, logger.Fields{
			"paymentId": paymentID,
		})
		return unavailableField
	}

	return plaintext
}

// resolveCustomerName is the best-effort enrichment step: decrypt the
// customer reference, fetch the customer, decrypt the name. Any failure
// along the way yields the typed fallback, never an error.
func (s *PaymentService) resolveCustomerName(ctx context.Context, payment domain.Payment) string {
	customerID, err := s.cipher.Decrypt(payment.CustomerID)
	if err != nil || customerID == "" {
		return unknownCustomer
	}

	if name, ok := s.names.Get(customerID); ok {
		return name
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return unknownCustomer
	}

	firstName, err := s.cipher.Decrypt(customer.FirstName)
	if err != nil {
		return unknownCustomer
	}
	lastName, err := s.cipher.Decrypt(customer.LastName)
	if err != nil {
		return unknownCustomer
	}

	name := firstName + " " + lastName
	s.names.Put(customerID, name)
	return name
}
