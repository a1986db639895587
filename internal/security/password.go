package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// RegistrationCost is the bcrypt work factor used for every stored password.
// Hashes are self-describing, so raising it never breaks verification of older hashes.
const RegistrationCost = 10

type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash hashes a plain text password with bcrypt at the given cost.
func (h *BcryptHasher) Hash(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Compare reports whether plain matches hash. A mismatch is (false, nil);
// a malformed hash is an error.
func (h *BcryptHasher) Compare(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}

// HashPassword hashes with RegistrationCost.
func HashPassword(plain string) (string, error) {
	return NewBcryptHasher().Hash(plain, RegistrationCost)
}
