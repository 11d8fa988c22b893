package domain

import "time"

const RoleEmployee = "employee"

// Staff holds one employee. Names are sanitized plaintext, the email is
// stored encrypted. Because field encryption is non-deterministic the
// email carries no digest column; login resolves it by decrypt-and-compare
// (see staff service).
type Staff struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	CredentialHash string
	Role           string
	CreatedAt      time.Time
}
