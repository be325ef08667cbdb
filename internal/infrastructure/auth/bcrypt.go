package auth

import (
	"errors"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"golang.org/x/crypto/bcrypt"
)

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", e.Wrap("BcryptHasher.Hash", err)
	}
	return string(hash), nil
}

// Compare возвращает e.ErrInvalidCredentials, если пароль не подходит.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return e.ErrInvalidCredentials
	}
	if err != nil {
		return e.Wrap("BcryptHasher.Compare", err)
	}
	return nil
}
