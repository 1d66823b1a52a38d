package hash

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var ErrMalformedHash = errors.New("malformed password hash")

type Hasher struct {
	Cost int

	decoyOnce sync.Once
	decoy     []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

// HashPassword returns a salted bcrypt hash; identical inputs give different outputs.
func (h *Hasher) HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches hash. A hash that is not a
// bcrypt hash yields ErrMalformedHash rather than a plain mismatch.
func (h *Hasher) CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// CheckDecoy runs a full comparison against a throwaway hash of the same cost,
// so a login for an unknown account costs as much as a wrong password.
func (h *Hasher) CheckDecoy(password string) {
	h.decoyOnce.Do(func() {
		h.decoy, _ = bcrypt.GenerateFromPassword([]byte("taskhub-decoy-password"), h.Cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
}
