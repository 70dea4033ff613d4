package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into salted one-way hashes and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify never returns an error: anything but a match is false.
	Verify(password, hash string) bool
}

// MaxPasswordBytes is the longest password bcrypt reads; later bytes are ignored.
const MaxPasswordBytes = 72

// BcryptHasher hashes with bcrypt. The zero value uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares in constant time; a corrupt stored hash is treated as a mismatch.
// Passwords longer than MaxPasswordBytes never match, since bcrypt would
// compare only their prefix.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ Hasher = (*BcryptHasher)(nil)
