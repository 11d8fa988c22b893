package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/models"
	"github.com/api-sage/intl-payments-portal/src/internal/commons"
	"github.com/api-sage/intl-payments-portal/src/internal/crypto"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

// Well-formed bcrypt digest burned on the account-lookup miss path. It is
// never a stored credential and its compare result is always discarded.
const unknownAccountCredentialHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenIssuer mints a session token for an authenticated principal. Token
// mechanics live with the transport layer; services only ask for a token
// once all credential checks have passed.
type TokenIssuer interface {
	Issue(principalID string, role string) (string, error)
}

type CustomerService struct {
	customerRepo domain.CustomerRepository
	cipher       *crypto.FieldCipher
	digester     *crypto.LookupDigester
	passwords    *crypto.PasswordHasher
	tokens       TokenIssuer
}

func NewCustomerService(
	customerRepo domain.CustomerRepository,
	cipher *crypto.FieldCipher,
	digester *crypto.LookupDigester,
	passwords *crypto.PasswordHasher,
	tokens TokenIssuer,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		cipher:       cipher,
		digester:     digester,
		passwords:    passwords,
		tokens:       tokens,
	}
}

func (s *CustomerService) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (commons.Response[models.RegisterCustomerResponse], error) {
	logger.Info("customer service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	// Shape and length checks run before any digesting, hashing or
	// encryption so malformed input costs no cryptographic work.
	if err := req.Validate(); err != nil {
		logger.Error("customer service register validation failed", err, nil)
		return commons.ErrorResponse[models.RegisterCustomerResponse]("validation failed", err.Error()), err
	}

	idNumber := strings.TrimSpace(req.IDNumber)
	accountNumber := strings.TrimSpace(req.AccountNumber)

	idNumberDigest := s.digester.Digest(idNumber)
	accountNumberDigest := s.digester.Digest(accountNumber)

	exists, err := s.customerRepo.ExistsByDigest(ctx, idNumberDigest, accountNumberDigest)
	if err != nil {
		logger.Error("customer service register digest check failed", err, nil)
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), err
	}
	if exists {
		logger.Info("customer service register duplicate digest", nil)
		return commons.ErrorResponse[models.RegisterCustomerResponse]("customer already exists"), domain.ErrDuplicateRecord
	}

	credentialHash, err := s.passwords.Hash(req.Password)
	if err != nil {
		logger.Error("customer service register hash failed", err, nil)
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), err
	}

	customer := domain.Customer{
		IDNumberDigest:      idNumberDigest,
		AccountNumberDigest: accountNumberDigest,
		CredentialHash:      credentialHash,
		Role:                domain.RoleCustomer,
	}

	if customer.FirstName, err = s.cipher.Encrypt(strings.TrimSpace(req.FirstName)); err != nil {
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), fmt.Errorf("encrypt first name: %w", err)
	}
	if middle := strings.TrimSpace(req.MiddleName); middle != "" {
		encrypted, err := s.cipher.Encrypt(middle)
		if err != nil {
			return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), fmt.Errorf("encrypt middle name: %w", err)
		}
		customer.MiddleName = &encrypted
	}
	if customer.LastName, err = s.cipher.Encrypt(strings.TrimSpace(req.LastName)); err != nil {
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), fmt.Errorf("encrypt last name: %w", err)
	}
	if customer.IDNumber, err = s.cipher.Encrypt(idNumber); err != nil {
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), fmt.Errorf("encrypt id number: %w", err)
	}
	if customer.AccountNumber, err = s.cipher.Encrypt(accountNumber); err != nil {
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), fmt.Errorf("encrypt account number: %w", err)
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			// A concurrent registration can win the digest race; the
			// unique indexes are the authority.
			return commons.ErrorResponse[models.RegisterCustomerResponse]("customer already exists"), domain.ErrDuplicateRecord
		}
		logger.Error("customer service register repository failed", err, nil)
		return commons.ErrorResponse[models.RegisterCustomerResponse]("failed to register customer", "Unable to register right now"), err
	}

	logger.Info("customer service register success", logger.Fields{
		"customerId": created.ID,
	})

	return commons.SuccessResponse("customer registered successfully", models.RegisterCustomerResponse{
		CustomerID: created.ID,
	}), nil
}

func (s *CustomerService) AuthenticateCustomer(ctx context.Context, req models.CustomerLoginRequest) (commons.Response[models.CustomerLoginResponse], error) {
	logger.Info("customer service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("customer service login validation failed", err, nil)
		return commons.ErrorResponse[models.CustomerLoginResponse]("validation failed", err.Error()), err
	}

	// Every failure below returns the same generic outcome: callers learn
	// nothing about whether the account exists or which check failed.
	accountDigest := s.digester.Digest(strings.TrimSpace(req.AccountNumber))

	customer, err := s.customerRepo.GetByAccountNumberDigest(ctx, accountDigest)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			logger.Error("customer service login lookup failed", err, nil)
		}
		// The miss path performs the same bcrypt comparison as a wrong
		// password, keeping account existence unobservable through
		// response timing.
		_ = s.passwords.Verify(req.Password, unknownAccountCredentialHash)
		return invalidCustomerCredentials(), domain.ErrInvalidCredentials
	}

	if !s.passwords.Verify(req.Password, customer.CredentialHash) {
		return invalidCustomerCredentials(), domain.ErrInvalidCredentials
	}

	storedFirst, err := s.cipher.Decrypt(customer.FirstName)
	if err != nil {
		logger.Error("customer service login decrypt failed", err, logger.Fields{
			"customerId": customer.ID,
		})
		return invalidCustomerCredentials(), domain.ErrInvalidCredentials
	}
	storedLast, err := s.cipher.Decrypt(customer.LastName)
	if err != nil {
		logger.Error("customer service login decrypt failed", err, logger.Fields{
			"customerId": customer.ID,
		})
		return invalidCustomerCredentials(), domain.ErrInvalidCredentials
	}

	claimedFirst, claimedLast := req.SplitName()
	if strings.ToLower(storedFirst) != claimedFirst || strings.ToLower(storedLast) != claimedLast {
		return invalidCustomerCredentials(), domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(customer.ID, customer.Role)
	if err != nil {
		logger.Error("customer service login token issue failed", err, logger.Fields{
			"customerId": customer.ID,
		})
		return commons.ErrorResponse[models.CustomerLoginResponse]("failed to login", "Unable to login right now"), err
	}

	logger.Info("customer service login success", logger.Fields{
		"customerId": customer.ID,
	})

	return commons.SuccessResponse("login successful", models.CustomerLoginResponse{
		Token:      token,
		CustomerID: customer.ID,
		Role:       customer.Role,
	}), nil
}

func (s *CustomerService) GetCustomerProfile(ctx context.Context, customerID string) (commons.Response[models.CustomerProfileResponse], error) {
	logger.Info("customer service profile request", logger.Fields{
		"customerId": customerID,
	})

	if strings.TrimSpace(customerID) == "" {
		err := fmt.Errorf("customerId is required")
		return commons.ErrorResponse[models.CustomerProfileResponse]("validation failed", err.Error()), err
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CustomerProfileResponse]("customer not found"), err
		}
		logger.Error("customer service profile lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[models.CustomerProfileResponse]("failed to get profile", "Unable to fetch profile right now"), err
	}

	firstName, err := s.cipher.Decrypt(customer.FirstName)
	if err != nil {
		logger.Error("customer service profile decrypt failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[models.CustomerProfileResponse]("failed to get profile", "Unable to fetch profile right now"), err
	}
	lastName, err := s.cipher.Decrypt(customer.LastName)
	if err != nil {
		logger.Error("customer service profile decrypt failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[models.CustomerProfileResponse]("failed to get profile", "Unable to fetch profile right now"), err
	}
	accountNumber, err := s.cipher.Decrypt(customer.AccountNumber)
	if err != nil {
		logger.Error("customer service profile decrypt failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[models.CustomerProfileResponse]("failed to get profile", "Unable to fetch profile right now"), err
	}

	return commons.SuccessResponse("profile fetched successfully", models.CustomerProfileResponse{
		FullName:      firstName + " " + lastName,
		AccountNumber: accountNumber,
		Role:          customer.Role,
	}), nil
}

func invalidCustomerCredentials() commons.Response[models.CustomerLoginResponse] {
	return commons.ErrorResponse[models.CustomerLoginResponse]("invalid credentials")
}
