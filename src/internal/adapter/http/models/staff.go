package models

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type EmployeeLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r EmployeeLoginRequest) Validate() error {
	var errs []string

	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if len(email) > maxFieldLength {
		errs = append(errs, "email too long")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "email is not valid")
	}

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

// NormalizedEmail lowercases and trims the login email the same way staff
// emails are normalized before encryption at seeding time.
func (r EmployeeLoginRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

type EmployeeLoginResponse struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role"`
}
