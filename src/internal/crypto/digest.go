package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// LookupDigester produces deterministic keyed digests so encrypted fields
// can still be found by equality without decrypting every stored record.
// There is deliberately no inverse operation.
type LookupDigester struct {
	key []byte
}

// NewLookupDigester requires its own key, distinct from the encryption key.
func NewLookupDigester(key []byte) (*LookupDigester, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("lookup digest key must be non-empty")
	}

	owned := make([]byte, len(key))
	copy(owned, key)
	return &LookupDigester{key: owned}, nil
}

// Digest returns the hex HMAC-SHA256 of the value. An absent value maps to
// the empty string, which callers must treat as "no value" and never use as
// a lookup key.
func (d *LookupDigester) Digest(value string) string {
	if value == "" {
		return ""
	}

	mac := hmac.New(sha256.New, d.key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
