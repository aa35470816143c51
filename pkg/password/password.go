package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used by Hash.
const DefaultCost = bcrypt.DefaultCost

var (
	// ErrPasswordTooLong is returned when the candidate exceeds bcrypt's
	// 72-byte input limit.
	ErrPasswordTooLong = errors.New("password: exceeds maximum length")
	// ErrMismatch is returned by Verify when the password doesn't match the hash.
	ErrMismatch = errors.New("password: does not match hash")
)

// Hash produces a bcrypt hash of plaintext using DefaultCost.
func Hash(plaintext string) (string, error) {
	return HashWithCost(plaintext, DefaultCost)
}

// HashWithCost produces a bcrypt hash of plaintext at the given cost factor.
func HashWithCost(plaintext string, cost int) (string, error) {
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks candidate against hash, returning nil on match.
func Verify(hash, candidate string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// NeedsRehash reports whether hash was produced at a cost below wantCost,
// letting callers upgrade stored hashes after raising DefaultCost.
func NeedsRehash(hash string, wantCost int) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < wantCost
}
