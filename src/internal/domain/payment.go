package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusAccepted PaymentStatus = "ACCEPTED"
	PaymentStatusRejected PaymentStatus = "REJECTED"

	// Reserved for the future SWIFT settlement integration. No transition
	// into either state is implemented.
	PaymentStatusSentToSwift PaymentStatus = "SENT_TO_SWIFT"
	PaymentStatusFailed      PaymentStatus = "FAILED"
)

type CardBrand string

const (
	CardBrandVisa       CardBrand = "VISA"
	CardBrandMastercard CardBrand = "MASTERCARD"
	CardBrandAmex       CardBrand = "AMEX"
	CardBrandUnknown    CardBrand = "UNKNOWN"
)

func IsValidCardBrand(value string) bool {
	switch CardBrand(value) {
	case CardBrandVisa, CardBrandMastercard, CardBrandAmex, CardBrandUnknown:
		return true
	}
	return false
}

// Payment is one customer-instructed payment. CustomerID, Provider,
// SwiftCode and CardLast4 are stored as authenticated ciphertext. The card
// token references a tokenized PAN and never a raw card number.
//
// Status starts PENDING and is moved exactly once, by exactly one employee,
// through PaymentRepository.UpdateIfPending. ACCEPTED and REJECTED are
// terminal.
type Payment struct {
	ID         string
	CustomerID string

	Amount   decimal.Decimal
	Currency string
	Provider string

	SwiftCode          string
	SwiftCodeValidated bool

	CardBrand   CardBrand
	CardLast4   string
	CardToken   string
	ExpiryMonth int
	ExpiryYear  int

	Status     PaymentStatus
	VerifiedBy *string
	VerifiedAt *time.Time
	Comment    *string

	// Advisory audit fields captured at creation, not security controls.
	CreatedByIP string
	UserAgent   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentVerification is the patch applied by the conditional transition
// out of PENDING.
type PaymentVerification struct {
	Status             PaymentStatus
	VerifiedBy         string
	VerifiedAt         time.Time
	SwiftCodeValidated bool
	Comment            *string
}
