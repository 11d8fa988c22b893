package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/models"
	"github.com/api-sage/intl-payments-portal/src/internal/commons"
	"github.com/api-sage/intl-payments-portal/src/internal/crypto"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

type StaffService struct {
	staffRepo domain.StaffRepository
	cipher    *crypto.FieldCipher
	passwords *crypto.PasswordHasher
	tokens    TokenIssuer
}

func NewStaffService(
	staffRepo domain.StaffRepository,
	cipher *crypto.FieldCipher,
	passwords *crypto.PasswordHasher,
	tokens TokenIssuer,
) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		cipher:    cipher,
		passwords: passwords,
		tokens:    tokens,
	}
}

// AuthenticateEmployee resolves the email by decrypting every staff row and
// comparing. Emails are non-deterministic ciphertext, so there is no digest
// to look up by; with the small staff table this is tolerable, and changing
// the stored representation would strand existing rows.
func (s *StaffService) AuthenticateEmployee(ctx context.Context, req models.EmployeeLoginRequest) (commons.Response[models.EmployeeLoginResponse], error) {
	logger.Info("staff service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("staff service login validation failed", err, nil)
		return commons.ErrorResponse[models.EmployeeLoginResponse]("validation failed", err.Error()), err
	}

	email := req.NormalizedEmail()

	all, err := s.staffRepo.GetAll(ctx)
	if err != nil {
		logger.Error("staff service login list failed", err, nil)
		return commons.ErrorResponse[models.EmployeeLoginResponse]("failed to login", "Unable to login right now"), err
	}

	var matched *domain.Staff
	for i := range all {
		decrypted, err := s.cipher.Decrypt(all[i].Email)
		if err != nil {
			// A corrupt email on one row must not block every other
			// employee from logging in.
			logger.Error("staff service login email decrypt failed", err, logger.Fields{
				"staffId": all[i].ID,
			})
			continue
		}
		if decrypted == email {
			matched = &all[i]
			break
		}
	}

	if matched == nil {
		return commons.ErrorResponse[models.EmployeeLoginResponse]("invalid credentials"), domain.ErrInvalidCredentials
	}

	if !s.passwords.Verify(req.Password, matched.CredentialHash) {
		return commons.ErrorResponse[models.EmployeeLoginResponse]("invalid credentials"), domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(matched.ID, matched.Role)
	if err != nil {
		logger.Error("staff service login token issue failed", err, logger.Fields{
			"staffId": matched.ID,
		})
		return commons.ErrorResponse[models.EmployeeLoginResponse]("failed to login", "Unable to login right now"), err
	}

	logger.Info("staff service login success", logger.Fields{
		"staffId": matched.ID,
	})

	return commons.SuccessResponse("login successful", models.EmployeeLoginResponse{
		Token:      token,
		EmployeeID: matched.ID,
		Role:       matched.Role,
	}), nil
}

// SeedDefaultEmployee inserts the bootstrap verifier account when the staff
// table is empty, so a fresh deployment has someone able to process
// payments.
func (s *StaffService) SeedDefaultEmployee(ctx context.Context, email string, password string) error {
	count, err := s.staffRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count staff: %w", err)
	}
	if count > 0 {
		return nil
	}

	encryptedEmail, err := s.cipher.Encrypt(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("encrypt seed email: %w", err)
	}

	credentialHash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	created, err := s.staffRepo.Create(ctx, domain.Staff{
		FirstName:      "Samantha",
		LastName:       "Jones",
		Email:          encryptedEmail,
		CredentialHash: credentialHash,
		Role:           domain.RoleEmployee,
	})
	if err != nil {
		return fmt.Errorf("create seed staff: %w", err)
	}

	logger.Info("staff service seeded default employee", logger.Fields{
		"staffId": created.ID,
	})

	return nil
}
