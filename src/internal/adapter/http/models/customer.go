package models

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Field shape limits applied before any cryptographic work.
const maxFieldLength = 200
const minPasswordLength = 12

var fieldWhitelist = regexp.MustCompile(`^[a-zA-Z0-9 .,@'-]+$`)

type RegisterCustomerRequest struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	IDNumber      string `json:"idNumber"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

func (r RegisterCustomerRequest) Validate() error {
	var errs []string

	errs = appendFieldErrors(errs, "firstName", r.FirstName, true)
	errs = appendFieldErrors(errs, "middleName", r.MiddleName, false)
	errs = appendFieldErrors(errs, "lastName", r.LastName, true)
	errs = appendFieldErrors(errs, "idNumber", r.IDNumber, true)
	errs = appendFieldErrors(errs, "accountNumber", r.AccountNumber, true)

	if len(r.Password) > maxFieldLength {
		errs = append(errs, "password too long")
	} else if msg := passwordPolicyError(r.Password); msg != "" {
		errs = append(errs, msg)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type RegisterCustomerResponse struct {
	CustomerID string `json:"customerId"`
}

type CustomerLoginRequest struct {
	// UserName carries "<first> <last>", matching the login form.
	UserName      string `json:"userName"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

func (r CustomerLoginRequest) Validate() error {
	var errs []string

	userName := strings.TrimSpace(r.UserName)
	if userName == "" {
		errs = append(errs, "userName is required")
	} else if len(userName) > maxFieldLength {
		errs = append(errs, "userName too long")
	} else if len(strings.Fields(userName)) < 2 {
		errs = append(errs, "userName must contain both first and last name")
	}

	errs = appendFieldErrors(errs, "accountNumber", r.AccountNumber, true)

	if r.Password == "" {
		errs = append(errs, "password is required")
	} else if len(r.Password) > maxFieldLength {
		errs = append(errs, "password too long")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// SplitName returns the first name and the remaining words as the last
// name, both lowercased for the case-insensitive comparison at login.
func (r CustomerLoginRequest) SplitName() (string, string) {
	parts := strings.Fields(strings.TrimSpace(r.UserName))
	if len(parts) < 2 {
		return "", ""
	}
	return strings.ToLower(parts[0]), strings.ToLower(strings.Join(parts[1:], " "))
}

type CustomerLoginResponse struct {
	Token      string `json:"token"`
	CustomerID string `json:"customerId"`
	Role       string `json:"role"`
}

type CustomerProfileResponse struct {
	FullName      string `json:"fullName"`
	AccountNumber string `json:"accountNumber"`
	Role          string `json:"role"`
}

func appendFieldErrors(errs []string, name string, value string, required bool) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return append(errs, name+" is required")
		}
		return errs
	}
	if len(trimmed) > maxFieldLength {
		return append(errs, name+" too long")
	}
	if !fieldWhitelist.MatchString(trimmed) {
		return append(errs, name+" contains unsupported characters")
	}

	return errs
}

func passwordPolicyError(password string) string {
	if len(password) < minPasswordLength {
		return "password must be at least 12 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "password must contain an uppercase letter, a lowercase letter, a digit and a symbol"
	}

	return ""
}
