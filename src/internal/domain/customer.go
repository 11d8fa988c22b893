package domain

import "time"

const RoleCustomer = "customer"

// Customer holds one registered customer. Name, id number and account
// number are stored as authenticated ciphertext; the two digest columns
// are deterministic keyed digests of the same logical fields so equality
// lookups never require a full decrypt scan.
type Customer struct {
	ID                  string
	FirstName           string
	MiddleName          *string
	LastName            string
	IDNumber            string
	IDNumberDigest      string
	AccountNumber       string
	AccountNumberDigest string
	CredentialHash      string
	Role                string
	CreatedAt           time.Time
}
