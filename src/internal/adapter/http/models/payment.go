package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/intl-payments-portal/src/internal/domain"
)

const maxCommentLength = 1000
const maxExpiryYearsAhead = 25

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
var providerPattern = regexp.MustCompile(`^[A-Za-z0-9 .&()-]{2,40}$`)
var last4Pattern = regexp.MustCompile(`^\d{4}$`)

// Shape accepted at creation time; the stricter canonical BIC check is
// applied at verification.
var swiftInputPattern = regexp.MustCompile(`^[A-Z0-9-]{6,20}$`)

// Canonical SWIFT/BIC: 8 or 11 characters after separator stripping.
var bicPattern = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

const (
	VerifyActionAccept = "ACCEPT"
	VerifyActionReject = "REJECT"
)

type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Provider    string          `json:"provider"`
	SwiftCode   string          `json:"swiftCode"`
	CardBrand   string          `json:"cardBrand"`
	CardLast4   string          `json:"cardLast4"`
	ExpiryMonth int             `json:"expiryMonth"`
	ExpiryYear  int             `json:"expiryYear"`
}

func (r CreatePaymentRequest) Validate() error {
	var errs []string

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if !currencyPattern.MatchString(strings.TrimSpace(r.Currency)) {
		errs = append(errs, "currency must be a 3-letter uppercase code")
	}
	if !providerPattern.MatchString(strings.TrimSpace(r.Provider)) {
		errs = append(errs, "provider is not valid")
	}
	if !swiftInputPattern.MatchString(strings.ToUpper(strings.TrimSpace(r.SwiftCode))) {
		errs = append(errs, "swiftCode is not valid")
	}
	if !domain.IsValidCardBrand(strings.TrimSpace(r.CardBrand)) {
		errs = append(errs, "cardBrand must be one of VISA, MASTERCARD, AMEX, UNKNOWN")
	}
	if !last4Pattern.MatchString(r.CardLast4) {
		errs = append(errs, "cardLast4 must be exactly 4 digits")
	}
	if r.ExpiryMonth < 1 || r.ExpiryMonth > 12 {
		errs = append(errs, "expiryMonth must be between 1 and 12")
	}
	currentYear := time.Now().Year()
	if r.ExpiryYear < currentYear || r.ExpiryYear > currentYear+maxExpiryYearsAhead {
		errs = append(errs, "expiryYear is out of range")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	Action    string `json:"action"`
	SwiftCode string `json:"swiftCode,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

func (r VerifyPaymentRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.PaymentID) == "" {
		errs = append(errs, "paymentId is required")
	}

	action := strings.TrimSpace(r.Action)
	if action != VerifyActionAccept && action != VerifyActionReject {
		errs = append(errs, "action must be ACCEPT or REJECT")
	}

	if code := NormalizeSwiftCode(r.SwiftCode); code != "" && !bicPattern.MatchString(code) {
		errs = append(errs, "swiftCode must be 8 or 11 characters in SWIFT/BIC form")
	}

	if len(r.Comment) > maxCommentLength {
		errs = append(errs, "comment must be at most 1000 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// NormalizeSwiftCode strips separator characters and uppercases, producing
// the canonical 8/11 character form.
func NormalizeSwiftCode(raw string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return strings.ToUpper(cleaned)
}

type PaymentResponse struct {
	ID                 string  `json:"id"`
	CustomerID         string  `json:"customerId,omitempty"`
	CustomerName       string  `json:"customerName,omitempty"`
	Amount             string  `json:"amount"`
	Currency           string  `json:"currency"`
	Provider           string  `json:"provider"`
	SwiftCode          string  `json:"swiftCode"`
	SwiftCodeValidated bool    `json:"swiftCodeValidated"`
	CardBrand          string  `json:"cardBrand"`
	MaskedCard         string  `json:"maskedCard"`
	ExpiryMonth        int     `json:"expiryMonth"`
	ExpiryYear         int     `json:"expiryYear"`
	Status             string  `json:"status"`
	VerifiedBy         *string `json:"verifiedBy,omitempty"`
	VerifiedAt         *string `json:"verifiedAt,omitempty"`
	Comment            *string `json:"comment,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// MaskLast4 renders the card for display; only ever applied to the
// decrypted last-4 digits.
func MaskLast4(last4 string) string {
	if last4 == "" {
		return ""
	}
	return "**** **** **** " + last4
}
