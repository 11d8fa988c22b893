package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrDuplicateRecord = errors.New("Record already exists")
var ErrInvalidCredentials = errors.New("Invalid credentials")

// ErrAlreadyProcessed is returned when a conditional status transition
// matched no PENDING row. It intentionally does not distinguish a payment
// that never existed from one another employee just processed.
var ErrAlreadyProcessed = errors.New("Payment not found or already processed")
