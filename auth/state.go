package auth

import (
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// StateHasher binds an anti-forgery state without storing it. Hash salts every call, so the
// same plaintext yields a different digest each time.
type StateHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

var _ StateHasher = (*BcryptStateHasher)(nil)

// BcryptStateHasher hashes states with bcrypt at a password-grade cost.
type BcryptStateHasher struct {
	cost int
}

// NewBcryptStateHasher clamps cost into bcrypt's accepted range. Zero selects bcrypt.DefaultCost.
func NewBcryptStateHasher(cost int) *BcryptStateHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptStateHasher{cost: cost}
}

func (h *BcryptStateHasher) Cost() int {
	return h.cost
}

func (h *BcryptStateHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", errors.Wrapf(err, "[BcryptStateHasher Hash]")
	}
	return string(digest), nil
}

func (h *BcryptStateHasher) Verify(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
