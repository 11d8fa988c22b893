package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt for both customer and employee credentials.
// Each Hash call salts independently, so equal passwords never produce
// equal stored hashes.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether the password matches the stored hash. A mismatch
// is an ordinary false, never an error.
func (h *PasswordHasher) Verify(password string, credentialHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(password)) == nil
}
